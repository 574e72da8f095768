// Package validate runs struct-tag validation on request payloads.
//
// Rules are comma-separated in the `validate` tag:
//
//	required          non-zero value (false is a value, not empty)
//	nullable          skip the remaining rules when the field is empty
//	email             email address
//	alpha_num         letters and digits only
//	alpha_dash        letters, digits, '-' and '_'
//	digits=N          exactly N decimal digits
//	min=N / max=N     numbers: value bound, strings: length bound
//	in=a|b|c          one of the listed values
//	confirmed         equals the sibling field <json>_confirmation
//
// Example:
//
//	type RegisterInput struct {
//	    Username string `json:"username" validate:"required,alpha_dash,max=150"`
//	    Password string `json:"password" validate:"required,min=8,confirmed"`
//	    UserType string `json:"user_type" validate:"required,in=user|seller"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Struct validates the tagged fields of v and returns json name -> message.
// Only the first failing rule per field is reported.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return errs
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		value := rv.Field(i)
		name := jsonFieldName(field)
		rules := strings.Split(tag, ",")

		if contains(rules, "nullable") && isEmpty(value) {
			continue
		}
		// Optional pointers are checked through their target.
		if value.Kind() == reflect.Ptr && !value.IsNil() {
			value = value.Elem()
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := apply(strings.TrimSpace(rule), name, value, rv); msg != "" {
				errs[name] = msg
				break
			}
		}
	}
	return errs
}

// HasErrors reports whether errs holds at least one failure.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

var (
	emailRE  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitsRE = regexp.MustCompile(`^\d+$`)
)

func apply(rule, field string, v, parent reflect.Value) string {
	raw := fmt.Sprint(v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "alpha_num":
		if !onlyRunes(raw, func(c rune) bool { return unicode.IsLetter(c) || unicode.IsDigit(c) }) {
			return fmt.Sprintf("The %s field must contain only letters and numbers.", field)
		}
	case "alpha_dash":
		if !onlyRunes(raw, func(c rune) bool { return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_' }) {
			return fmt.Sprintf("The %s field may only contain letters, numbers, dashes and underscores.", field)
		}
	case "digits":
		n, _ := strconv.Atoi(param)
		if !digitsRE.MatchString(raw) || len(raw) != n {
			return fmt.Sprintf("The %s must be %s digits.", field, param)
		}
	case "min", "max":
		limit, _ := strconv.ParseFloat(param, 64)
		var got float64
		unit := ""
		if isNumeric(v) {
			got = toFloat(v)
		} else {
			got = float64(len([]rune(raw)))
			unit = " characters"
		}
		if key == "min" && got < limit {
			return fmt.Sprintf("The %s must be at least %s%s.", field, param, unit)
		}
		if key == "max" && got > limit {
			return fmt.Sprintf("The %s must not be greater than %s%s.", field, param, unit)
		}
	case "in":
		for _, a := range strings.Split(param, "|") {
			if raw == a {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "confirmed":
		other, ok := siblingByJSON(parent, field+"_confirmation")
		if !ok || fmt.Sprint(other.Interface()) != raw {
			return fmt.Sprintf("The %s confirmation does not match.", field)
		}
	}
	return ""
}

func onlyRunes(s string, ok func(rune) bool) bool {
	for _, c := range s {
		if !ok(c) {
			return false
		}
	}
	return true
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	}
	return v.Float()
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

func siblingByJSON(parent reflect.Value, name string) (reflect.Value, bool) {
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if jsonFieldName(rt.Field(i)) == name {
			return parent.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func contains(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
