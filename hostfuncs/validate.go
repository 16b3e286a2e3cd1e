package hostfuncs

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vesselbridge/sdk/domain/entities"
	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/internal/abi"
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

	mustRegister(v, "finite", validateFinite)
	mustRegister(v, "nonzerovec", validateNonZeroVec)
	mustRegister(v, "hoststring", validateHostString)
	mustRegister(v, "thgroup", validateThGroup)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("hostfuncs: register validation %q: %v", tag, err))
	}
}

// validateFinite accepts float fields and 3-vectors without NaN or Inf.
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

func validateNonZeroVec(fl validator.FieldLevel) bool {
	v, ok := fl.Field().Interface().(entities.Vector3)
	return ok && !v.IsZero()
}

func validateHostString(fl validator.FieldLevel) bool {
	return abi.CheckHostString(fl.Field().String()) == nil
}

func validateThGroup(fl validator.FieldLevel) bool {
	return entities.ThrusterGroupType(fl.Field().Int()).IsValid()
}

// Wrapper request shapes. Field names double as the "field" of a ValidationError.

type createVesselArgs struct {
	Name  string `json:"name" validate:"required,hoststring"`
	Class string `json:"class" validate:"required,hoststring"`
}

type meshArgs struct {
	Name   string           `json:"mesh" validate:"required,hoststring"`
	Offset entities.Vector3 `json:"offset" validate:"finite"`
}

type exhaustArgs struct {
	Thruster entities.ThrusterHandle `json:"thruster" validate:"required"`
	LScale   float64                 `json:"lscale" validate:"gt=0,finite"`
	WScale   float64                 `json:"wscale" validate:"gt=0,finite"`
}

type thrusterArgs struct {
	Pos       entities.Vector3 `json:"pos" validate:"finite"`
	Dir       entities.Vector3 `json:"dir" validate:"finite,nonzerovec"`
	MaxThrust float64          `json:"max_thrust" validate:"gt=0,finite"`
	Isp       float64          `json:"isp" validate:"gt=0,finite"`
}

type propellantArgs struct {
	Mass float64 `json:"mass" validate:"gte=0,finite"`
}

type thrusterGroupArgs struct {
	Thrusters []entities.ThrusterHandle `json:"thrusters" validate:"required,min=1,dive,required"`
	Type      entities.ThrusterGroupType `json:"type" validate:"thgroup"`
}

// checkArgs validates args and converts a failure into a ValidationError for op.
func checkArgs(op string, args any) error {
	err := validate.Struct(args)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &sdkerrors.ValidationError{
			Op:    op,
			Field: fe.Field(),
			Err:   fieldError(fe),
		}
	}
	return &sdkerrors.ValidationError{Op: op, Err: err}
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return errors.New("value is required")
	case "min":
		return fmt.Errorf("needs at least %s element(s)", fe.Param())
	case "gt":
		return fmt.Errorf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Errorf("must be at least %s", fe.Param())
	case "finite":
		return errors.New("must be finite")
	case "nonzerovec":
		return errors.New("must not be the zero vector")
	case "hoststring":
		return abi.CheckHostString(fmt.Sprint(fe.Value()))
	case "thgroup":
		return fmt.Errorf("unknown thruster group type %v", fe.Value())
	default:
		return fmt.Errorf("failed %q check", fe.Tag())
	}
}
