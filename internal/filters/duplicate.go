package filters

import "github.com/cbegin/graphsynth/internal/frame"

// Duplicate clones its single input onto two output ports (spec §6).
type Duplicate struct {
	in frame.Block
}

func NewDuplicate() *Duplicate { return &Duplicate{} }

func (d *Duplicate) Push(in frame.Block, port int) { d.in = in }

func (d *Duplicate) Transform() []frame.Block {
	return []frame.Block{d.in, d.in.Clone()}
}

func (d *Duplicate) InputArity() int             { return 1 }
func (d *Duplicate) OutputArity() int            { return 2 }
func (d *Duplicate) Postponable() bool           { return false }
func (d *Duplicate) SetParameter(string, float32) {}

func (d *Duplicate) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "Duplicate",
		Description: "Fans one input block out to two identical outputs.",
		InputPorts:  1,
		OutputPorts: 2,
	}
}
