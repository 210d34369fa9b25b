//
// Copyright (c) 2026 HashCloak
//
// All rights reserved.
//

package ml

import (
	"golang.org/x/crypto/blake2b"
)

// Fingerprint digests the canonical byte serialization of trained
// parameters. Training is deterministic, so two runs over identical
// inputs must produce identical fingerprints; a mismatch means the
// evaluation was not the agreed straight-line sequence.
func Fingerprint(params []Parameters) [32]byte {
	var buf []byte
	for _, p := range params {
		for _, w := range p.Weights {
			b := w.X.Bytes()
			buf = append(buf, b[:]...)
		}
		b := p.Bias.X.Bytes()
		buf = append(buf, b[:]...)
	}
	return blake2b.Sum256(buf)
}
