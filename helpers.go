package sdk

import (
	"github.com/vesselbridge/sdk/application/config"
)

// Typed getters for class configuration documents. See package
// application/config for the accepted value forms.
var (
	GetString        = config.GetString
	GetInt           = config.GetInt
	GetFloat         = config.GetFloat
	GetBool          = config.GetBool
	GetStringSlice   = config.GetStringSlice
	GetVector        = config.GetVector
	GetThrusterGroup = config.GetThrusterGroup
	GetSection       = config.GetSection

	MustGetString = config.MustGetString
	MustGetInt    = config.MustGetInt
	MustGetFloat  = config.MustGetFloat
	MustGetBool   = config.MustGetBool
	MustGetVector = config.MustGetVector

	GetStringDefault = config.GetStringDefault
	GetIntDefault    = config.GetIntDefault
	GetFloatDefault  = config.GetFloatDefault
	GetBoolDefault   = config.GetBoolDefault
	GetVectorDefault = config.GetVectorDefault
)
