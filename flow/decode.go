package flow

import (
	"errors"
	"reflect"
	"strings"

	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/pkg/util"
	"github.com/HavvokLab/solix-setup/schema"
	"github.com/HavvokLab/solix-setup/setting"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

func decode(values map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(values)
}

// decodeFields decodes the bag one key at a time. Keys whose value cannot be
// converted are reported as invalid_type.
func decodeFields(values map[string]any, out any) map[string]string {
	errs := make(map[string]string)
	for k, v := range values {
		if err := decode(map[string]any{k: v}, out); err != nil {
			errs[k] = schema.ErrInvalidType
		}
	}
	return errs
}

// decodeOptions applies a submitted bag on top of base.
func decodeOptions(base model.Options, values map[string]any) (model.Options, map[string]string) {
	opts := base
	opts.ExcludedCategories = append([]string(nil), base.ExcludedCategories...)

	errs := make(map[string]string)
	for k, v := range values {
		next := opts
		next.ExcludedCategories = append([]string(nil), opts.ExcludedCategories...)
		if err := decode(map[string]any{k: v}, &next); err != nil {
			errs[k] = schema.ErrInvalidType
			continue
		}
		opts = next
	}

	return opts, errs
}

// checkOptions validates decoded options against the fields they were
// rendered from.
func checkOptions(fields []schema.Field, opts model.Options) (map[string]string, error) {
	var values map[string]any
	if err := util.Recast(opts, &values); err != nil {
		return nil, err
	}

	errs := schema.Validate(fields, values)
	if opts.TestMode && util.IsEmpty(opts.TestFolder) {
		errs[setting.KeyTestFolder] = ErrCodeFolderInvalid
	}

	return errs, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateCredentials(v *validator.Validate, input model.CredentialInput) error {
	creds := input.Credentials()
	input.Username = creds.Username
	input.CountryCode = creds.CountryCode

	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = ErrCodeRequired
		case "email":
			fields[fe.Field()] = ErrCodeInvalidEmail
		case "iso3166_1_alpha2":
			fields[fe.Field()] = ErrCodeInvalidCountry
		default:
			fields[fe.Field()] = fe.Tag()
		}
	}

	return &ValidationError{Fields: fields}
}
