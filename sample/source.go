/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sample

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"

	"golang.org/x/crypto/salsa20"
)

// NewSource returns a pseudo-random source seeded with the given seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// cryptoSource serves random values read from crypto/rand.
type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		panic(err)
	}

	return binary.LittleEndian.Uint64(b[:])
}

// NewCryptoSource returns a source backed by crypto/rand.
func NewCryptoSource() rand.Source {
	return cryptoSource{}
}

// detSource serves values from a salsa20 keystream, so that the same
// key always yields the same stream.
type detSource struct {
	key   [32]byte
	nonce uint64
	buf   []byte
	off   int
}

const detBlock = 512

// NewDetSource returns a deterministic source whose stream is derived
// from the provided key via a salsa20 keystream.
func NewDetSource(key *[32]byte) rand.Source {
	return &detSource{key: *key}
}

func (s *detSource) Uint64() uint64 {
	if s.off+8 > len(s.buf) {
		s.refill()
	}
	v := binary.LittleEndian.Uint64(s.buf[s.off:])
	s.off += 8

	return v
}

func (s *detSource) refill() {
	var nonce [8]byte
	binary.LittleEndian.PutUint64(nonce[:], s.nonce)
	s.nonce++

	in := make([]byte, detBlock)
	out := make([]byte, detBlock)
	salsa20.XORKeyStream(out, in, nonce[:], &s.key)

	s.buf = out
	s.off = 0
}

// CheckSource returns src if it is non-nil, and a fresh crypto/rand
// backed source otherwise. Samplers use it to interpret a nil source
// argument.
func CheckSource(src rand.Source) rand.Source {
	if src == nil {
		return NewCryptoSource()
	}

	return src
}
