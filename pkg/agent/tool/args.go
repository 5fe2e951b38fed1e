package tool

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Args holds tool arguments that passed validation against the tool declaration.
// Values are normalized: strings are string, integers are int, numbers are float64.
type Args struct {
	values map[string]any
}

// NewArgs validates raw model-supplied arguments against spec
func NewArgs(spec gollem.ToolSpec, raw map[string]any) (Args, error) {
	values := make(map[string]any, len(raw))

	unknown := make([]string, 0)
	for key := range raw {
		if _, ok := spec.Parameters[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Args{}, goerr.Wrap(ErrInvalidArgument, "unexpected argument "+strconv.Quote(unknown[0]),
			goerr.V("tool", spec.Name), goerr.V("unexpected", unknown))
	}

	names := make([]string, 0, len(spec.Parameters))
	for name := range spec.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		param := spec.Parameters[name]
		v, ok := raw[name]
		if !ok || v == nil {
			if param.Required {
				return Args{}, goerr.Wrap(ErrInvalidArgument, "missing required argument "+strconv.Quote(name),
					goerr.V("tool", spec.Name))
			}
			continue
		}

		normalized, err := normalize(param, v)
		if err != nil {
			return Args{}, goerr.Wrap(err, "argument "+strconv.Quote(name)+" is invalid",
				goerr.V("tool", spec.Name), goerr.V("value", v))
		}

		if len(param.Enum) > 0 {
			s, _ := normalized.(string)
			if !slices.Contains(param.Enum, s) {
				return Args{}, goerr.Wrap(ErrInvalidArgument,
					"argument "+strconv.Quote(name)+" must be one of "+strings.Join(param.Enum, ", "),
					goerr.V("tool", spec.Name), goerr.V("value", v))
			}
		}

		values[name] = normalized
	}

	return Args{values: values}, nil
}

// normalize coerces v to the declared parameter type. Models occasionally send
// numbers as strings and the reverse, both are accepted when lossless.
func normalize(param *gollem.Parameter, v any) (any, error) {
	switch param.Type {
	case gollem.TypeString:
		switch x := v.(type) {
		case string:
			return x, nil
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64), nil
		case int:
			return strconv.Itoa(x), nil
		case int64:
			return strconv.FormatInt(x, 10), nil
		}
		return nil, goerr.Wrap(ErrInvalidArgument, "expected a string")

	case gollem.TypeInteger:
		switch x := v.(type) {
		case int:
			return x, nil
		case int64:
			return int(x), nil
		case float64:
			if x != math.Trunc(x) {
				return nil, goerr.Wrap(ErrInvalidArgument, "expected an integer")
			}
			return int(x), nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(x))
			if err != nil {
				return nil, goerr.Wrap(ErrInvalidArgument, "expected an integer")
			}
			return n, nil
		}
		return nil, goerr.Wrap(ErrInvalidArgument, "expected an integer")

	case gollem.TypeNumber:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return nil, goerr.Wrap(ErrInvalidArgument, "expected a number")
			}
			return f, nil
		}
		return nil, goerr.Wrap(ErrInvalidArgument, "expected a number")

	case gollem.TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, goerr.Wrap(ErrInvalidArgument, "expected a boolean")

	default:
		return v, nil
	}
}

// Has reports whether the argument was supplied
func (a Args) Has(key string) bool {
	_, ok := a.values[key]
	return ok
}

// String returns a string argument, or "" when absent
func (a Args) String(key string) string {
	s, _ := a.values[key].(string)
	return s
}

// StringOr returns a string argument, or def when absent or empty
func (a Args) StringOr(key, def string) string {
	if s := a.String(key); s != "" {
		return s
	}
	return def
}

// Int returns an integer argument. ok is false when absent.
func (a Args) Int(key string) (int, bool) {
	n, ok := a.values[key].(int)
	return n, ok
}

// IntOr returns an integer argument, or def when absent
func (a Args) IntOr(key string, def int) int {
	if n, ok := a.Int(key); ok {
		return n
	}
	return def
}

// Map returns a copy of the normalized arguments, used for the audit trail
func (a Args) Map() map[string]any {
	out := make(map[string]any, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}
