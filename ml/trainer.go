//
// Copyright (c) 2026 HashCloak
//
// All rights reserved.
//

package ml

import (
	"fmt"

	"github.com/hashcloak/mpc-ml/fixed"
)

// Bit budgets of the training inputs. These are part of the caller
// contract: samples whose quantized magnitude exceeds 20 bits must
// be normalized into [-1, 1] before quantization.
const (
	LabelBits = 17
	RateBits  = 11
)

// Parameters holds the trained weight vector and bias of one class.
type Parameters struct {
	Weights []fixed.Quantized
	Bias    fixed.Quantized
}

// LearningRateRatio folds the 1/N factor of the gradient mean into
// the learning rate so no division happens inside the computation.
func LearningRateRatio(alpha float64, n int) fixed.Quantized {
	return fixed.Encode(alpha / float64(n))
}

// TrainMultiClass trains one logistic-regression model per class
// with full-batch gradient descent. Weights and biases start at
// zero. Classes are independent but share the epoch loop; epochs and
// samples execute strictly in sequence because every weight update
// depends on the previous one.
//
// inputs is N samples by M features, labels is C classes by N
// one-hot entries, lrRatio is the learning rate pre-multiplied by
// 1/N. The sequence of operations performed depends only on the
// shape (N, M, C, epochs), never on the data.
func TrainMultiClass(epochs int, inputs [][]fixed.Quantized,
	labels [][]fixed.Quantized, lrRatio fixed.Quantized) (
	[]Parameters, error) {

	n := len(inputs)
	if n == 0 {
		return nil, fmt.Errorf("ml: no samples")
	}
	m := len(inputs[0])
	if m == 0 {
		return nil, fmt.Errorf("ml: no features")
	}
	for i, row := range inputs {
		if len(row) != m {
			return nil, fmt.Errorf("ml: sample %d has %d features, want %d",
				i, len(row), m)
		}
		for j, v := range row {
			if err := v.CheckBits(InputBits); err != nil {
				return nil, fmt.Errorf("ml: input[%d][%d]: %w", i, j, err)
			}
		}
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("ml: no classes")
	}
	for c, row := range labels {
		if len(row) != n {
			return nil, fmt.Errorf("ml: class %d has %d labels, want %d",
				c, len(row), n)
		}
		for i, v := range row {
			if err := v.CheckBits(LabelBits); err != nil {
				return nil, fmt.Errorf("ml: label[%d][%d]: %w", c, i, err)
			}
		}
	}
	if err := lrRatio.CheckBits(RateBits); err != nil {
		return nil, fmt.Errorf("ml: learning rate ratio: %w", err)
	}

	params := make([]Parameters, len(labels))
	for c := range params {
		params[c].Weights = make([]fixed.Quantized, m)
	}

	for epoch := 0; epoch < epochs; epoch++ {
		for c := range params {
			err := epochStep(&params[c], inputs, labels[c], lrRatio)
			if err != nil {
				return nil, fmt.Errorf("ml: epoch %d class %d: %w",
					epoch, c, err)
			}
		}
	}
	return params, nil
}

// epochStep runs one full-batch gradient-descent transition of a
// single class: per-sample error against the label, gradient
// accumulation with the same delayed-rescale strategy as the
// prediction engine, then the weight and bias update.
func epochStep(p *Parameters, inputs [][]fixed.Quantized,
	labels []fixed.Quantized, lrRatio fixed.Quantized) error {

	gradW := make([]Accumulator, len(p.Weights))
	var gradB fixed.Quantized

	for i, row := range inputs {
		pred, err := Predict(p.Weights, row, p.Bias)
		if err != nil {
			return err
		}
		e, err := pred.Sub(labels[i])
		if err != nil {
			return err
		}
		gradB, err = gradB.Add(e)
		if err != nil {
			return err
		}
		for j := range row {
			if err := gradW[j].AddProduct(e, row[j]); err != nil {
				return err
			}
		}
	}

	for j := range p.Weights {
		gw, err := gradW[j].Sum()
		if err != nil {
			return err
		}
		step, err := lrRatio.Mul(gw)
		if err != nil {
			return err
		}
		p.Weights[j], err = p.Weights[j].Sub(step)
		if err != nil {
			return err
		}
	}

	step, err := lrRatio.Mul(gradB)
	if err != nil {
		return err
	}
	p.Bias, err = p.Bias.Sub(step)
	return err
}
