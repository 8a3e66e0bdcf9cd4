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

// Package sample provides sources of randomness and primitive samplers
// used by the point process samplers.
//
// A Source in this package is a math/rand/v2 Source and can therefore
// be plugged into gonum's distributions and sampling routines. Three
// kinds of sources are provided: a seeded pseudo-random source, a
// source backed by crypto/rand, and a deterministic source derived from
// a salsa20 keystream which reproduces the same stream for the same
// key.
//
// On top of the sources, the package implements the primitive draws the
// chain rule samplers are built from: weighted index selection,
// Bernoulli trials and uniform reals.
package sample
