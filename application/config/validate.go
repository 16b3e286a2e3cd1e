package config

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/domain/errors"
)

// validate is a package-level singleton; validator caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("finite", validateFinite); err != nil {
		panic(fmt.Sprintf("config: register validation: %v", err))
	}
	if err := v.RegisterValidation("thgroup", validateThGroup); err != nil {
		panic(fmt.Sprintf("config: register validation: %v", err))
	}
	return v
}

func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		x := f.Float()
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	case reflect.Array:
		for i := 0; i < f.Len(); i++ {
			x := f.Index(i).Float()
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func validateThGroup(fl validator.FieldLevel) bool {
	return entities.ThrusterGroupType(fl.Field().Int()).IsValid()
}

// Decode copies config into the struct pointed to by target and runs the
// struct's validate tags on it. Besides the standard tags, "finite" rejects
// NaN and infinite reals or vectors and "thgroup" rejects unknown thruster
// group types.
//
// A failed check is returned as a ConfigError naming the first offending
// field by its json name.
func Decode(config Config, target any) error {
	jsonBytes, err := json.Marshal(config)
	if err != nil {
		return &errors.ConfigError{Err: fmt.Errorf("failed to marshal config map: %w", err)}
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return &errors.ConfigError{Err: fmt.Errorf("failed to unmarshal config into struct: %w", err)}
	}

	if err := validate.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if stdErrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &errors.ConfigError{
				Field: fe.Namespace()[strings.IndexByte(fe.Namespace(), '.')+1:],
				Err:   fmt.Errorf("validation failed on %q", fe.Tag()),
			}
		}
		return &errors.ConfigError{Err: fmt.Errorf("config validation failed: %w", err)}
	}

	return nil
}
