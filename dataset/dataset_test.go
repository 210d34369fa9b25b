package dataset

import (
	"testing"

	"github.com/hashcloak/mpc-ml/fixed"
)

func TestQuantize(t *testing.T) {
	q, err := Quantize([][]float64{{0.5, -1}, {1, 0}})
	if err != nil {
		t.Fatalf("Quantize: %s", err)
	}
	if len(q) != 2 || len(q[0]) != 2 {
		t.Fatalf("shape lost: %d rows", len(q))
	}
	if !q[0][0].Equal(fixed.Encode(0.5)) {
		t.Fatalf("entry not quantized")
	}
}

func TestQuantizeRange(t *testing.T) {
	if _, err := Quantize([][]float64{{1.5}}); err == nil {
		t.Fatalf("unnormalized sample accepted")
	}
	if _, err := Quantize([][]float64{{-2}}); err == nil {
		t.Fatalf("unnormalized negative sample accepted")
	}
}

func TestQuantizeLabels(t *testing.T) {
	q, err := QuantizeLabels([][]float64{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("QuantizeLabels: %s", err)
	}
	if !q[0][0].Equal(fixed.Encode(1)) || !q[0][1].Equal(fixed.Encode(0)) {
		t.Fatalf("labels not quantized")
	}

	if _, err := QuantizeLabels([][]float64{{0.5}}); err == nil {
		t.Fatalf("non-binary label accepted")
	}
}

func TestSynthetic(t *testing.T) {
	samples, labels := Synthetic()

	if _, err := Quantize(samples); err != nil {
		t.Fatalf("synthetic samples invalid: %s", err)
	}
	if _, err := QuantizeLabels(labels); err != nil {
		t.Fatalf("synthetic labels invalid: %s", err)
	}
	for c, row := range labels {
		if len(row) != len(samples) {
			t.Fatalf("class %d has %d labels for %d samples",
				c, len(row), len(samples))
		}
	}
	// One-hot: exactly one class per sample.
	for i := range samples {
		var sum float64
		for c := range labels {
			sum += labels[c][i]
		}
		if sum != 1 {
			t.Fatalf("sample %d is not one-hot", i)
		}
	}
}
