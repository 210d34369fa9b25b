//
// main.go
//
// Copyright (c) 2026 HashCloak
//
// All rights reserved.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/markkurossi/tabulate"

	"github.com/hashcloak/mpc-ml/circuit"
	"github.com/hashcloak/mpc-ml/dataset"
	"github.com/hashcloak/mpc-ml/ml"
)

func main() {
	epochs := flag.Int("epochs", 10, "number of training epochs")
	alpha := flag.Float64("alpha", 0.1, "learning rate")
	cost := flag.Bool("cost", false, "print the circuit cost report")
	flag.Parse()

	rawSamples, rawLabels := dataset.Synthetic()

	samples, err := dataset.Quantize(rawSamples)
	if err != nil {
		log.Fatalf("quantize samples: %s", err)
	}
	labels, err := dataset.QuantizeLabels(rawLabels)
	if err != nil {
		log.Fatalf("quantize labels: %s", err)
	}
	lr := ml.LearningRateRatio(*alpha, len(rawSamples))

	params, err := ml.TrainMultiClass(*epochs, samples, labels, lr)
	if err != nil {
		log.Fatalf("train: %s", err)
	}

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Class").SetAlign(tabulate.MR)
	tab.Header("Weights").SetAlign(tabulate.ML)
	tab.Header("Bias").SetAlign(tabulate.MR)

	for c, p := range params {
		var weights []string
		for _, w := range p.Weights {
			v, err := w.Decode()
			if err != nil {
				log.Fatalf("decode class %d weight: %s", c, err)
			}
			weights = append(weights, fmt.Sprintf("%.6f", v))
		}
		bias, err := p.Bias.Decode()
		if err != nil {
			log.Fatalf("decode class %d bias: %s", c, err)
		}

		row := tab.Row()
		row.Column(fmt.Sprintf("%d", c))
		row.Column(strings.Join(weights, ", "))
		row.Column(fmt.Sprintf("%.6f", bias))
	}
	tab.Print(os.Stdout)

	fmt.Printf("fingerprint: %x\n", ml.Fingerprint(params))

	if *cost {
		c := circuit.Build(circuit.Shape{
			Samples:  len(rawSamples),
			Features: len(rawSamples[0]),
			Classes:  len(rawLabels),
			Epochs:   *epochs,
		})
		c.Report(os.Stdout)
	}
}
