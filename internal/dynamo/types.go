package dynamo

import "sort"

// Configurable exposes the scalar inputs of a model by name so sweeps and
// presets can vary them without knowing the concrete type.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Params builds the GetParams view of a name to field table.
func Params(fields map[string]*float64) map[string]float64 {
	out := make(map[string]float64, len(fields))
	for name, p := range fields {
		out[name] = *p
	}
	return out
}

// SetParam writes value into the field registered under name.
func SetParam(fields map[string]*float64, name string, value float64) error {
	p, ok := fields[name]
	if !ok {
		return Invalid("unknown parameter %q (known: %v)", name, ParamNames(fields))
	}
	*p = value
	return nil
}

func ParamNames(fields map[string]*float64) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
