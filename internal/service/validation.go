package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so messages line up with
// the request payload.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationFields flattens validator errors into field-keyed messages,
// keeping the first message per field. Errors inside an ingredient entry
// are reported under "ingredients".
func validationFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key, msg := fe.Field(), fieldMessage(fe)
		if strings.Contains(fe.Namespace(), "ingredients[") {
			key, msg = "ingredients", fe.Field()+": "+msg
		}
		if _, seen := fields[key]; !seen {
			fields[key] = msg
		}
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "hexcolor", "len":
		return "enter a valid hex color such as #49B64E"
	}
	return "invalid value"
}

// duplicates returns the values that occur more than once, sorted.
func duplicates(ids []uint) []uint {
	seen := make(map[uint]int, len(ids))
	for _, id := range ids {
		seen[id]++
	}
	var dups []uint
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i] < dups[j] })
	return dups
}

// missing returns the ids in want that are not in have, sorted.
func missing(want, have []uint) []uint {
	found := make(map[uint]struct{}, len(have))
	for _, id := range have {
		found[id] = struct{}{}
	}
	var out []uint
	for _, id := range want {
		if _, ok := found[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}
