package sdk

import (
	"github.com/vesselbridge/sdk/application/config"
)

// ValidateClassConfig decodes a class configuration document into the
// struct pointed to by target and validates it against the struct's
// validate tags. It returns a ConfigError naming the first offending field.
//
//	type shuttleConfig struct {
//	    Mesh      string  `json:"mesh" validate:"required"`
//	    MaxThrust float64 `json:"max_thrust" validate:"gt=0,finite"`
//	}
func ValidateClassConfig(cfg ClassConfig, target any) error {
	return config.Decode(cfg, target)
}
