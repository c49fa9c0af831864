// Package filters implements the graph.Filter library: Gain, Clipper,
// Combinator, Duplicate, Delay, the IIR filter family, MovingAverage,
// Tremolo, and Compressor (spec §6).
package filters

// ParameterKind discriminates the shape of a filter's adjustable parameter,
// mirroring the host UI/automation surface's needs.
type ParameterKind int

const (
	KindToggle ParameterKind = iota
	KindRange
	KindFloat
	KindList
)

// ParameterDescriptor documents one SetParameter name a filter accepts.
type ParameterDescriptor struct {
	Name    string        `json:"name"`
	Kind    ParameterKind `json:"kind"`
	Default float32       `json:"default"`
	Min     float32       `json:"min,omitempty"`
	Max     float32       `json:"max,omitempty"`
	Options []string      `json:"options,omitempty"`
}

// FilterMeta describes a filter's identity, port arity, and parameter
// surface, serializable for a host's patch editor or automation layer.
type FilterMeta struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	InputPorts  int                   `json:"input_ports"`
	OutputPorts int                   `json:"output_ports"`
	Postponable bool                  `json:"postponable"`
	Parameters  []ParameterDescriptor `json:"parameters"`
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
