// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Status is the lifecycle state of a catalog entry.
type Status string

const (
	StatusActive     Status = "active"
	StatusDraft      Status = "draft"
	StatusArchived   Status = "archived"
	StatusDeleted    Status = "deleted"
	StatusDeprecated Status = "deprecated"
)

// License is one of the identifiers accepted for published resources.
type License string

const (
	LicenseMIT         License = "MIT"
	LicenseApache2     License = "Apache-2.0"
	LicenseGPL3        License = "GPL-3.0"
	LicenseCCBY        License = "CC-BY-4.0"
	LicenseCCBYSA      License = "CC-BY-SA-4.0"
	LicenseProprietary License = "Proprietary"
)

const (
	statusValues  = "active draft archived deleted deprecated"
	licenseValues = "MIT Apache-2.0 GPL-3.0 CC-BY-4.0 CC-BY-SA-4.0 Proprietary"
)

// The identifier grammars are intentionally pattern-only checks, so codes
// like "zz" pass as long as they have the right shape.
var (
	urnRegexp     = regexp.MustCompile(`^urn:[a-z0-9][a-z0-9\-._:/]{2,}$`)
	slugRegexp    = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)
	iso639Regexp  = regexp.MustCompile(`^[a-z]{2}$`)
	iso3166Regexp = regexp.MustCompile(`^[A-Z]{2}$`)
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the process-wide validator with the catalog tags
// registered. The instance is safe for concurrent use.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)

		mustRegisterRegexp(validate, "urn", urnRegexp)
		mustRegisterRegexp(validate, "slug", slugRegexp)
		mustRegisterRegexp(validate, "iso639_1", iso639Regexp)
		mustRegisterRegexp(validate, "iso3166_1a2", iso3166Regexp)
		if err := validate.RegisterValidation("uniquefold", uniqueFold); err != nil {
			panic(fmt.Errorf("registering uniquefold validation: %w", err))
		}
	})
	return validate
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func mustRegisterRegexp(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Errorf("registering %s validation: %w", tag, err))
	}
}

// uniqueFold rejects string slices holding the same value twice, ignoring
// case.
func uniqueFold(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}

	seen := make(map[string]struct{}, field.Len())
	for i := range field.Len() {
		folded := strings.ToLower(field.Index(i).String())
		if _, duplicate := seen[folded]; duplicate {
			return false
		}
		seen[folded] = struct{}{}
	}
	return true
}

// Defaulter is implemented by payloads that fill zero fields with their
// defaults before validation runs.
type Defaulter interface {
	SetDefaults()
}

// Validate checks v against its registered validation tags and flattens any
// violation into a single descriptive error.
func Validate(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return err
	}

	messages := make([]string, 0, len(violations))
	for _, violation := range violations {
		messages = append(messages, fmt.Sprintf("field %q fails %q validation", violation.Field(), violation.ActualTag()))
	}
	return errors.New(strings.Join(messages, "; "))
}

// DecodeStrict unmarshals data into out rejecting unknown fields, applies
// defaults and validates the result. out must be a non-nil pointer.
func DecodeStrict(data []byte, out any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	if decoder.More() {
		return errors.New("malformed payload: unexpected trailing data")
	}

	if defaulter, ok := out.(Defaulter); ok {
		defaulter.SetDefaults()
	}
	return Validate(out)
}

// UpdateDoc converts an update payload into the JSON object holding only the
// fields that were set. Pointer fields left nil are omitted, so a pointer to
// an empty slice still clears the target field.
func UpdateDoc(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding update payload: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding update payload: %w", err)
	}
	return doc, nil
}
