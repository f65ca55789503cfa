// Package validate holds the input checks run before any store access. Every
// check is pure and reports a Result instead of an error.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// NameMaxLength is the column width of every name field.
	NameMaxLength = 255
	DateLayout    = "2006-01-02"
)

var dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Result is the outcome of a single check.
type Result struct {
	Pass    bool
	Message string
}

func pass() Result {
	return Result{Pass: true}
}

func fail(format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...)}
}

// Check is a deferred validation step.
type Check func() Result

// First runs checks in order and returns the first failure. Checks after a
// failure are not evaluated.
func First(checks ...Check) Result {
	for _, check := range checks {
		if result := check(); !result.Pass {
			return result
		}
	}
	return pass()
}

// String checks that value, once trimmed, has between min and max characters.
func String(field, value string, min, max int) Result {
	length := utf8.RuneCountInString(strings.TrimSpace(value))
	if length < min {
		if min <= 1 {
			return fail("%s is required", field)
		}
		return fail("%s must be at least %d characters", field, min)
	}
	if max > 0 && length > max {
		return fail("%s must be at most %d characters", field, max)
	}
	return pass()
}

// Name applies the shared name rule.
func Name(value string) Result {
	return String("name", value, 1, NameMaxLength)
}

// Description checks a description; optional descriptions may be blank.
func Description(value string, optional bool) Result {
	if optional && strings.TrimSpace(value) == "" {
		return pass()
	}
	return String("description", value, 1, 0)
}

// Date checks for a real calendar date in strict YYYY-MM-DD form.
func Date(field, value string) Result {
	if !dateShape.MatchString(value) {
		return fail("%s must be a date in YYYY-MM-DD format", field)
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return fail("%s is not a valid calendar date", field)
	}
	return pass()
}

// DateOrder checks start <= end. Both values must already be valid dates.
func DateOrder(startField, start, endField, end string) Result {
	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return fail("%s is not a valid calendar date", startField)
	}
	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return fail("%s is not a valid calendar date", endField)
	}
	if startDate.After(endDate) {
		return fail("%s must not be after %s", startField, endField)
	}
	return pass()
}

// NonNegativeInt accepts integral JSON numbers, Go integers and numeric
// strings that are >= 0.
func NonNegativeInt(field string, value any) Result {
	if _, ok := AsInt(value); !ok {
		return fail("%s must be a non-negative integer", field)
	}
	return pass()
}

// NonNegativeInt32 is NonNegativeInt bounded to a 32-bit INTEGER column.
func NonNegativeInt32(field string, value any) Result {
	if n, ok := AsInt(value); !ok || n > math.MaxInt32 {
		return fail("%s must be an integer between 0 and %d", field, math.MaxInt32)
	}
	return pass()
}

// IDArray requires a slice whose every element is a non-negative integer.
func IDArray(field string, value any) Result {
	items, ok := value.([]any)
	if !ok {
		return fail("%s must be an array of ids", field)
	}
	for i, item := range items {
		if _, ok := AsInt(item); !ok {
			return fail("%s[%d] must be a non-negative integer", field, i)
		}
	}
	return pass()
}

// AsInt converts a validated value to int64.
func AsInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), v >= 0
	case int64:
		return v, v >= 0
	case float64:
		if v < 0 || v != math.Trunc(v) || v >= math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		parsed, err := strconv.ParseInt(v.String(), 10, 64)
		return parsed, err == nil && parsed >= 0
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return parsed, err == nil && parsed >= 0
	default:
		return 0, false
	}
}

// AsIDs converts a validated id array to int64 values.
func AsIDs(value any) []int64 {
	items, _ := value.([]any)
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if id, ok := AsInt(item); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
