package tools

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
)

// ErrInvalidArguments reports arguments that are not a JSON object
var ErrInvalidArguments = errors.New("invalid arguments")

// Args is a parsed arguments object with typed accessors. Accessor failures
// are scheduling validation errors, so their messages reach the agent.
type Args struct {
	raw gjson.Result
}

// ParseArgs parses a raw arguments string. Empty input is the empty object.
func ParseArgs(s string) (Args, error) {
	if strings.TrimSpace(s) == "" {
		s = "{}"
	}
	if !gjson.Valid(s) {
		return Args{}, ErrInvalidArguments
	}
	r := gjson.Parse(s)
	if !r.IsObject() {
		return Args{}, ErrInvalidArguments
	}
	return Args{raw: r}, nil
}

// MustArgs parses s and panics on error. Intended for tests.
func MustArgs(s string) Args {
	a, err := ParseArgs(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Args) get(name string) gjson.Result {
	return a.raw.Get(gjson.Escape(name))
}

// Has reports whether name is present and not null
func (a Args) Has(name string) bool {
	v := a.get(name)
	return v.Exists() && v.Type != gjson.Null
}

// String returns the trimmed string value of name, or "" when absent
func (a Args) String(name string) string {
	v := a.get(name)
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return strings.TrimSpace(v.String())
}

// RequiredString returns the trimmed value of name or a validation error when blank
func (a Args) RequiredString(name string) (string, error) {
	s := a.String(name)
	if s == "" {
		return "", scheduling.Validationf("%s is required.", name)
	}
	return s, nil
}

// Int64 returns name as an integer. Numeric strings are accepted.
func (a Args) Int64(name string) (int64, error) {
	v := a.get(name)
	switch v.Type {
	case gjson.Number:
		if v.Num != float64(int64(v.Num)) {
			return 0, scheduling.Validationf("%s must be an integer.", name)
		}
		return v.Int(), nil
	case gjson.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return 0, scheduling.Validationf("%s must be an integer.", name)
		}
		return n, nil
	case gjson.Null:
		return 0, scheduling.Validationf("%s is required.", name)
	default:
		if !v.Exists() {
			return 0, scheduling.Validationf("%s is required.", name)
		}
		return 0, scheduling.Validationf("%s must be an integer.", name)
	}
}

// Bool returns name as a boolean, false when absent
func (a Args) Bool(name string) bool {
	return a.get(name).Bool()
}

// Date returns name parsed as yyyy-MM-dd
func (a Args) Date(name string) (time.Time, error) {
	s, err := a.RequiredString(name)
	if err != nil {
		return time.Time{}, err
	}
	d, err := scheduling.ParseDate(s)
	if err != nil {
		return time.Time{}, scheduling.Validationf("%s must be a date in yyyy-MM-dd format.", name)
	}
	return d, nil
}

// OptionalDate returns nil when name is absent or blank
func (a Args) OptionalDate(name string) (*time.Time, error) {
	if a.String(name) == "" {
		return nil, nil
	}
	d, err := a.Date(name)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Raw returns the arguments JSON
func (a Args) Raw() string {
	return a.raw.Raw
}
