//
// Copyright (c) 2026 HashCloak
//
// All rights reserved.
//

// Package dataset prepares plaintext decimal data for the
// fixed-point training core. Validation lives here, before
// quantization: the core rejects bit-budget violations but does not
// interpret values, so malformed labels or unnormalized samples must
// never reach it.
package dataset

import (
	"fmt"

	"github.com/hashcloak/mpc-ml/fixed"
)

// Quantize converts normalized samples to fixed-point. Every feature
// must lie in [-1, 1]; anything larger would exceed the 20-bit input
// budget of the trainer.
func Quantize(samples [][]float64) ([][]fixed.Quantized, error) {
	out := make([][]fixed.Quantized, len(samples))
	for i, row := range samples {
		out[i] = make([]fixed.Quantized, len(row))
		for j, v := range row {
			if v < -1 || v > 1 {
				return nil, fmt.Errorf(
					"dataset: sample %d feature %d out of range: %v",
					i, j, v)
			}
			out[i][j] = fixed.Encode(v)
		}
	}
	return out, nil
}

// QuantizeLabels converts one-hot label rows to fixed-point. Every
// entry must be exactly 0 or 1; any other value makes the error term
// of the trainer meaningless.
func QuantizeLabels(labels [][]float64) ([][]fixed.Quantized, error) {
	out := make([][]fixed.Quantized, len(labels))
	for c, row := range labels {
		out[c] = make([]fixed.Quantized, len(row))
		for i, v := range row {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf(
					"dataset: class %d label %d is not 0 or 1: %v",
					c, i, v)
			}
			out[c][i] = fixed.Encode(v)
		}
	}
	return out, nil
}

// Synthetic returns a fixed 4-sample, 2-feature, 2-class dataset.
// Class 0 is the samples with a negative first feature, class 1 the
// rest; the two label rows are complementary one-hot vectors.
func Synthetic() (samples [][]float64, labels [][]float64) {
	samples = [][]float64{
		{-0.5, -0.5},
		{-0.25, 0.5},
		{0.5, -0.25},
		{0.5, 0.5},
	}
	labels = [][]float64{
		{1, 1, 0, 0},
		{0, 0, 1, 1},
	}
	return samples, labels
}
