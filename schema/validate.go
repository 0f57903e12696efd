package schema

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	ErrOutOfRange    = "out_of_range"
	ErrInvalidOption = "invalid_option"
	ErrInvalidType   = "invalid_type"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("integral", func(fl validator.FieldLevel) bool {
		n := fl.Field().Float()
		return n == math.Trunc(n)
	})
	return v
}

// tag error codes
var tagCodes = map[string]string{
	"gte":      ErrOutOfRange,
	"lte":      ErrOutOfRange,
	"integral": ErrInvalidType,
	"oneof":    ErrInvalidOption,
}

// Validate checks submitted values against the bounds and choices of their
// descriptors. Keys without a descriptor and empty selections are ignored.
func Validate(fields []Field, values map[string]any) map[string]string {
	errs := make(map[string]string)
	for _, f := range fields {
		v, ok := values[f.Key]
		if !ok || v == nil {
			continue
		}

		var err error
		switch f.Kind {
		case KindNumber, KindInteger:
			n, ok := toFloat(v)
			if !ok {
				errs[f.Key] = ErrInvalidType
				continue
			}
			err = validate.Var(n, numberTag(f))
		case KindSelect:
			selected := nonEmpty(toStrings(v))
			if len(selected) == 0 {
				continue
			}
			tag := "oneof=" + oneOfParam(f.Options)
			if f.Multiple {
				err = validate.Var(selected, "dive,"+tag)
			} else {
				err = validate.Var(selected[0], tag)
			}
		default:
			continue
		}

		if code := errorCode(err); code != "" {
			errs[f.Key] = code
		}
	}
	return errs
}

func numberTag(f Field) string {
	var tags []string
	if f.Min != nil {
		tags = append(tags, fmt.Sprintf("gte=%g", *f.Min))
	}
	if f.Max != nil {
		tags = append(tags, fmt.Sprintf("lte=%g", *f.Max))
	}
	if f.Kind == KindInteger {
		tags = append(tags, "integral")
	}
	if len(tags) == 0 {
		return "omitempty"
	}
	return strings.Join(tags, ",")
}

// oneOfParam quotes each option so that spaces survive, and escapes the
// characters validator treats as tag separators.
func oneOfParam(options []string) string {
	quoted := make([]string, 0, len(options))
	for _, o := range options {
		o = strings.NewReplacer("'", "", ",", "0x2C", "|", "0x7C").Replace(o)
		quoted = append(quoted, "'"+o+"'")
	}
	return strings.Join(quoted, " ")
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if code, ok := tagCodes[fieldErrs[0].Tag()]; ok {
			return code
		}
	}
	return ErrInvalidType
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}

func toStrings(v any) []string {
	switch s := v.(type) {
	case string:
		return []string{s}
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
