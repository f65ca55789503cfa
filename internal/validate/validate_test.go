package validate

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestNameRejectsWhitespaceOnly(t *testing.T) {
	result := Name("   \t ")
	if result.Pass {
		t.Fatal("expected whitespace-only name to fail")
	}
	if result.Message != "name is required" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestNameLengthBounds(t *testing.T) {
	if !Name(strings.Repeat("a", NameMaxLength)).Pass {
		t.Fatal("expected 255 characters to pass")
	}
	if Name(strings.Repeat("a", NameMaxLength+1)).Pass {
		t.Fatal("expected 256 characters to fail")
	}
	if !Name("  Launch  ").Pass {
		t.Fatal("expected padded name to pass")
	}
}

func TestDescriptionOptional(t *testing.T) {
	if !Description("", true).Pass {
		t.Fatal("optional description should accept blank")
	}
	if Description(" ", false).Pass {
		t.Fatal("required description should reject blank")
	}
}

func TestDate(t *testing.T) {
	cases := map[string]bool{
		"2024-06-15":  true,
		"2024-02-29":  true,
		"2023-02-29":  false,
		"2024-6-15":   false,
		"15/06/2024":  false,
		"2024-06-15T": false,
		"":            false,
	}
	for input, want := range cases {
		if got := Date("date", input).Pass; got != want {
			t.Errorf("Date(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestDateOrder(t *testing.T) {
	if !DateOrder("startDate", "2024-06-15", "endDate", "2024-06-15").Pass {
		t.Fatal("equal dates should pass")
	}
	result := DateOrder("startDate", "2024-07-01", "endDate", "2024-06-30")
	if result.Pass {
		t.Fatal("start after end should fail")
	}
	if result.Message != "startDate must not be after endDate" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestNonNegativeInt(t *testing.T) {
	accepted := []any{0, int64(3), float64(12), json.Number("7"), "42"}
	for _, value := range accepted {
		if !NonNegativeInt("id", value).Pass {
			t.Errorf("expected %#v to pass", value)
		}
	}
	rejected := []any{-1, float64(1.5), "abc", nil, true, []any{1}, float64(1 << 63), float64(math.MaxInt64), json.Number("9223372036854775808")}
	for _, value := range rejected {
		if NonNegativeInt("id", value).Pass {
			t.Errorf("expected %#v to fail", value)
		}
	}
}

func TestAsIntNeverWrapsNegative(t *testing.T) {
	if id, ok := AsInt(float64(math.MaxInt64)); ok {
		t.Fatalf("AsInt(2^63) = %d, %v", id, ok)
	}
	id, ok := AsInt(json.Number("9007199254740993"))
	if !ok || id != 9007199254740993 {
		t.Fatalf("AsInt(json.Number) = %d, %v", id, ok)
	}
}

func TestNonNegativeInt32(t *testing.T) {
	for _, value := range []any{0, float64(math.MaxInt32), json.Number("12")} {
		if !NonNegativeInt32("type", value).Pass {
			t.Errorf("expected %#v to pass", value)
		}
	}
	result := NonNegativeInt32("type", json.Number("2147483648"))
	if result.Pass || result.Message != "type must be an integer between 0 and 2147483647" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if NonNegativeInt32("type", -1).Pass {
		t.Fatal("expected negative type to fail")
	}
}

func TestIDArray(t *testing.T) {
	if !IDArray("tags", []any{float64(1), float64(2)}).Pass {
		t.Fatal("expected numeric array to pass")
	}
	if !IDArray("tags", []any{}).Pass {
		t.Fatal("expected empty array to pass")
	}
	if IDArray("tags", "1,2").Pass {
		t.Fatal("expected non-array to fail")
	}
	result := IDArray("tags", []any{float64(1), float64(-2)})
	if result.Pass || result.Message != "tags[1] must be a non-negative integer" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestFirstStopsAtFirstFailure(t *testing.T) {
	ran := 0
	counted := func(r Result) Check {
		return func() Result {
			ran++
			return r
		}
	}

	result := First(
		counted(Result{Pass: true}),
		counted(Result{Message: "boom"}),
		counted(Result{Message: "never"}),
	)

	if result.Message != "boom" {
		t.Fatalf("expected first failure, got %q", result.Message)
	}
	if ran != 2 {
		t.Fatalf("expected 2 checks to run, got %d", ran)
	}
}

func TestAsIDs(t *testing.T) {
	ids := AsIDs([]any{float64(3), "4", json.Number("5")})
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 4 || ids[2] != 5 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
