package param

import (
	"fmt"
	"strconv"
)

// Kind identifies how a parameter's value is sampled and rendered.
type Kind int

const (
	Int Kind = iota
	Float
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps the config-facing kind string to its tag.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	case "categorical":
		return Categorical, nil
	default:
		return 0, &ConfigError{Detail: fmt.Sprintf("unknown parameter kind %q", s)}
	}
}

// Param declares one tunable parameter. Min/Max bound numeric kinds
// (Min/Max are inclusive; Int params truncate them to integers), Log
// requests log-uniform sampling, Choices holds the categorical choice set.
type Param struct {
	Name    string
	Kind    Kind
	Min     float64
	Max     float64
	Log     bool
	Choices []string
}

// Spec is an ordered parameter declaration. Order matters: suggested values
// are rendered as positional command-line arguments in declaration order.
type Spec []Param

func (s Spec) Validate() error {
	seen := make(map[string]bool, len(s))
	for i, p := range s {
		if p.Name == "" {
			return &ConfigError{Detail: fmt.Sprintf("parameter %d: name is required", i)}
		}
		if seen[p.Name] {
			return &ConfigError{Param: p.Name, Detail: "duplicate parameter name"}
		}
		seen[p.Name] = true
		switch p.Kind {
		case Int, Float:
			if p.Min >= p.Max {
				return &ConfigError{Param: p.Name, Detail: fmt.Sprintf("min %v must be below max %v", p.Min, p.Max)}
			}
			if p.Log && p.Min <= 0 {
				return &ConfigError{Param: p.Name, Detail: "log sampling requires a positive min"}
			}
		case Categorical:
			if len(p.Choices) == 0 {
				return &ConfigError{Param: p.Name, Detail: "categorical parameter needs at least one choice"}
			}
		default:
			return &ConfigError{Param: p.Name, Detail: fmt.Sprintf("unknown kind %v", p.Kind)}
		}
	}
	return nil
}

// Value is one suggested parameter value. Exactly one of Int/Float/Choice is
// meaningful, selected by Kind.
type Value struct {
	Name   string
	Kind   Kind
	Int    int64
	Float  float64
	Choice string
}

// Arg renders the value as a positional command-line argument.
func (v Value) Arg() string {
	switch v.Kind {
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Float:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return v.Choice
	}
}

// Trial is the per-evaluation handle handed down by the search driver. The
// driver records every suggestion for its own bookkeeping; the bridge only
// reads from it.
type Trial interface {
	ID() string
	SuggestInt(name string, low, high int64, logScale bool) int64
	SuggestFloat(name string, low, high float64, logScale bool) float64
	SuggestCategorical(name string, choices []string) string
}

// Suggest fills in a concrete value for every declared parameter, preserving
// declaration order. An unknown kind fails with *ConfigError and suggests
// nothing for that parameter.
func Suggest(spec Spec, t Trial) ([]Value, error) {
	values := make([]Value, 0, len(spec))
	for _, p := range spec {
		v := Value{Name: p.Name, Kind: p.Kind}
		switch p.Kind {
		case Int:
			v.Int = t.SuggestInt(p.Name, int64(p.Min), int64(p.Max), p.Log)
		case Float:
			v.Float = t.SuggestFloat(p.Name, p.Min, p.Max, p.Log)
		case Categorical:
			v.Choice = t.SuggestCategorical(p.Name, p.Choices)
		default:
			return nil, &ConfigError{Param: p.Name, Detail: fmt.Sprintf("unknown kind %v", p.Kind)}
		}
		values = append(values, v)
	}
	return values, nil
}

// Args renders suggested values as positional arguments in order.
func Args(values []Value) []string {
	args := make([]string, len(values))
	for i, v := range values {
		args[i] = v.Arg()
	}
	return args
}

// ConfigError reports an unusable parameter declaration.
type ConfigError struct {
	Param  string
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Param == "" {
		return e.Detail
	}
	return fmt.Sprintf("parameter %q: %s", e.Param, e.Detail)
}
