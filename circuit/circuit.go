//
// Copyright (c) 2026 HashCloak
//
// All rights reserved.
//

// Package circuit models the arithmetic-operation cost of a training
// run. The training computation is a fixed sequence of field
// operations fully determined by its shape (samples, features,
// classes, epochs), so the sequence can be counted without being
// executed. Counts are the resource measure of this system: there is
// no wall clock inside a circuit.
package circuit

import (
	"fmt"
	"io"

	"github.com/markkurossi/tabulate"
	"github.com/markkurossi/text/superscript"

	"github.com/hashcloak/mpc-ml/field"
)

// Operation classifies the primitive field operations.
type Operation byte

// Field operation kinds. DECOMP is a full byte decomposition with
// its recomposition check, by far the most expensive primitive.
const (
	ADD Operation = iota
	SUB
	MUL
	DECOMP
	SELECT
)

func (op Operation) String() string {
	switch op {
	case ADD:
		return "ADD"
	case SUB:
		return "SUB"
	case MUL:
		return "MUL"
	case DECOMP:
		return "DECOMP"
	case SELECT:
		return "SELECT"
	default:
		return fmt.Sprintf("{Operation %d}", op)
	}
}

// Stats holds operation counts of a circuit fragment.
type Stats [SELECT + 1]int

// Add returns the elementwise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	for op := ADD; op <= SELECT; op++ {
		s[op] += o[op]
	}
	return s
}

// Scale returns s with every count multiplied by n.
func (s Stats) Scale(n int) Stats {
	for op := ADD; op <= SELECT; op++ {
		s[op] *= n
	}
	return s
}

// Count returns the total number of operations.
func (s Stats) Count() int {
	var sum int
	for op := ADD; op <= SELECT; op++ {
		sum += s[op]
	}
	return sum
}

// Cost computes the relative cost of the fragment. A decomposition
// constrains every byte of the element, a multiplexer hides one
// multiplication, additions are nearly free.
func (s Stats) Cost() int {
	return s[DECOMP]*32 + (s[MUL]+s[SELECT])*2 + s[ADD] + s[SUB]
}

func (s Stats) String() string {
	var str string
	for op := ADD; op <= SELECT; op++ {
		if len(str) > 0 {
			str += " "
		}
		str += fmt.Sprintf("%s=%d", op, s[op])
	}
	return str
}

// Shape fixes the dimensions of one training run.
type Shape struct {
	Samples  int
	Features int
	Classes  int
	Epochs   int
}

// Component is a named fragment of the training circuit.
type Component struct {
	Label string
	Stats Stats
}

// Circuit holds the operation counts of a full training run.
type Circuit struct {
	Shape      Shape
	Components []Component
	Total      Stats
}

// Primitive fragments, mirroring the helper structure of the fixed
// and ml packages.
var (
	// checkBits: sign decomposition, conditional negation, bit
	// length of the magnitude.
	checkBits = Stats{SUB: 1, DECOMP: 1, SELECT: 1}

	// rescale: sign handling plus low-16 isolation, exact division
	// by the scale factor, sign restore.
	rescale = Stats{SUB: 3, MUL: 1, DECOMP: 2, SELECT: 2}

	qAdd = checkBits.Scale(2).Add(Stats{ADD: 1})
	qSub = checkBits.Scale(2).Add(Stats{SUB: 1})
	qMul = checkBits.Scale(2).Add(Stats{MUL: 1}).Add(rescale)

	// le: subtract and test the sign of the difference.
	le = checkBits.Scale(2).Add(Stats{SUB: 1, DECOMP: 1})

	qSelect = Stats{SELECT: 1}

	// accumStep: one raw product into the delayed-rescale
	// accumulator, with operand and accumulator budgets asserted.
	accumStep = checkBits.Scale(3).Add(Stats{ADD: 1, MUL: 1})

	// sigmoid: two shared slope products, three piece offsets, four
	// threshold comparisons, four conditional overwrites.
	sigmoid = qMul.Scale(2).
		Add(qAdd.Scale(3)).
		Add(le.Scale(4)).
		Add(qSelect.Scale(4))
)

// Build counts the operations of a training run of the given shape.
func Build(shape Shape) *Circuit {
	evals := shape.Epochs * shape.Classes * shape.Samples

	// Biased dot product of one sample.
	dot := accumStep.Scale(shape.Features).Add(rescale).Add(qAdd)

	prediction := dot.Scale(evals)
	activation := sigmoid.Scale(evals)

	// Per-sample error and gradient accumulation.
	gradient := qSub.Add(qAdd).
		Add(accumStep.Scale(shape.Features)).
		Scale(evals)

	// Per-class epoch tail: rescale and apply every weight
	// gradient, then the bias gradient.
	update := rescale.Add(qMul).Add(qSub).
		Scale(shape.Features).
		Add(qMul).Add(qSub).
		Scale(shape.Epochs * shape.Classes)

	c := &Circuit{
		Shape: shape,
		Components: []Component{
			{Label: "prediction", Stats: prediction},
			{Label: "sigmoid", Stats: activation},
			{Label: "gradient", Stats: gradient},
			{Label: "update", Stats: update},
		},
	}
	for _, comp := range c.Components {
		c.Total = c.Total.Add(comp.Stats)
	}
	return c
}

func (c *Circuit) String() string {
	return fmt.Sprintf("#ops=%d (%s) cost=%d",
		c.Total.Count(), c.Total, c.Total.Cost())
}

// Report prints the per-component operation counts.
func (c *Circuit) Report(w io.Writer) {
	fmt.Fprintf(w, "scale 2%s, N=%d M=%d C=%d epochs=%d\n",
		superscript.Itoa(field.ScaleBits),
		c.Shape.Samples, c.Shape.Features, c.Shape.Classes,
		c.Shape.Epochs)

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Component").SetAlign(tabulate.ML)
	for op := ADD; op <= SELECT; op++ {
		tab.Header(op.String()).SetAlign(tabulate.MR)
	}
	tab.Header("Cost").SetAlign(tabulate.MR)

	for _, comp := range c.Components {
		row := tab.Row()
		row.Column(comp.Label)
		for op := ADD; op <= SELECT; op++ {
			row.Column(fmt.Sprintf("%d", comp.Stats[op]))
		}
		row.Column(fmt.Sprintf("%d", comp.Stats.Cost()))
	}

	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	for op := ADD; op <= SELECT; op++ {
		row.Column(fmt.Sprintf("%d", c.Total[op])).
			SetFormat(tabulate.FmtBold)
	}
	row.Column(fmt.Sprintf("%d", c.Total.Cost())).
		SetFormat(tabulate.FmtBold)

	tab.Print(w)
}
