package schema

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// FieldRule is a single struct-tag-driven validation, the idiomatic Go
// stand-in for a decorator/reflection validation framework (spec's Design
// Notes, "Decorator-driven validation and transformation"): teacher/pack
// repos carry no such framework, so Solo reads a `solo:"required,min=N"`
// tag via reflect instead of importing one.
type FieldRule struct {
	Required bool
	Min      *float64
}

func parseFieldRule(tag string) FieldRule {
	var rule FieldRule
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "required":
			rule.Required = true
		case strings.HasPrefix(part, "min="):
			if v, err := strconv.ParseFloat(strings.TrimPrefix(part, "min="), 64); err == nil {
				rule.Min = &v
			}
		}
	}
	return rule
}

// ValidateStruct walks v's exported fields, applying any `solo:"..."` tag
// found. Returns a soloerr.IllegalArgument error naming every violation, or nil.
func ValidateStruct(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	rt := rv.Type()

	var violations []string
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag, ok := field.Tag.Lookup("solo")
		if !ok {
			continue
		}
		rule := parseFieldRule(tag)
		fv := rv.Field(i)

		if rule.Required && isZero(fv) {
			violations = append(violations, field.Name+" is required")
			continue
		}
		if rule.Min != nil {
			if n, ok := asFloat(fv); ok && n < *rule.Min {
				violations = append(violations, field.Name+" must be >= "+strconv.FormatFloat(*rule.Min, 'g', -1, 64))
			}
		}
	}
	if len(violations) > 0 {
		return soloerr.IllegalArgument(strings.Join(violations, "; "))
	}
	return nil
}

func isZero(v reflect.Value) bool {
	return v.IsZero()
}

func asFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}
