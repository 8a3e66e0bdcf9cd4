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

// Package ust implements sampling of uniform spanning trees, the
// archetypal determinantal point process over the edges of a connected
// graph. The defining kernel is the transfer current matrix, an
// orthogonal projection kernel of rank n-1, so spanning trees can be
// sampled either by random walk algorithms (Wilson, Aldous-Broder) or
// by the projection DPP chain rule.
package ust

import (
	"math/rand/v2"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/dpp-project/godpp/data"
	"github.com/dpp-project/godpp/finite"
	"github.com/dpp-project/godpp/sample"
)

// Edge is an undirected graph edge with U < V.
type Edge struct {
	U, V int64
}

// Mode selects the spanning tree sampling algorithm.
type Mode string

const (
	// ModeWilson runs loop-erased random walks (the default).
	ModeWilson Mode = "Wilson"
	// ModeAldousBroder collects first-entry edges of a random walk.
	ModeAldousBroder Mode = "AldousBroder"
	// ModeGS samples the transfer current kernel with the projection
	// DPP chain rule.
	ModeGS Mode = "GS"
)

// UST samples uniform spanning trees of a connected undirected graph.
type UST struct {
	g       *simple.UndirectedGraph
	nodes   []int64
	nodeIdx map[int64]int
	edges   []Edge

	kernel data.Matrix
}

// NewUST returns a sampler of uniform spanning trees of g.
// It returns an error if g is empty or not connected.
func NewUST(g *simple.UndirectedGraph) (*UST, error) {
	nodeList := graph.NodesOf(g.Nodes())
	if len(nodeList) == 0 {
		return nil, errors.New("graph has no nodes")
	}

	nodes := make([]int64, len(nodeList))
	for i, n := range nodeList {
		nodes[i] = n.ID()
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	nodeIdx := make(map[int64]int, len(nodes))
	for i, id := range nodes {
		nodeIdx[id] = i
	}

	edges := make([]Edge, 0)
	for _, e := range graph.EdgesOf(g.Edges()) {
		u, v := e.From().ID(), e.To().ID()
		if u > v {
			u, v = v, u
		}
		edges = append(edges, Edge{U: u, V: v})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		return edges[i].V < edges[j].V
	})

	u := &UST{
		g:       g,
		nodes:   nodes,
		nodeIdx: nodeIdx,
		edges:   edges,
	}
	if !u.connected() {
		return nil, errors.New("graph is not connected")
	}

	return u, nil
}

// Edges returns the edges of the graph in the fixed order used by the
// kernel indexing.
func (u *UST) Edges() []Edge {
	return u.edges
}

func (u *UST) connected() bool {
	n := len(u.nodes)
	seen := make([]bool, n)
	stack := []int{0}
	seen[0] = true
	count := 1
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, nb := range graph.NodesOf(u.g.From(u.nodes[cur])) {
			i := u.nodeIdx[nb.ID()]
			if !seen[i] {
				seen[i] = true
				count++
				stack = append(stack, i)
			}
		}
	}

	return count == n
}

// Kernel returns the transfer current matrix of the graph,
// K = A^T (A A^T)^-1 A, where A is the oriented vertex-edge incidence
// matrix with the row of the last vertex removed. K is an orthogonal
// projection kernel of rank n-1 over the edges, and the uniform
// spanning tree is exactly DPP(K).
func (u *UST) Kernel() (data.Matrix, error) {
	if u.kernel != nil {
		return u.kernel, nil
	}

	n, m := len(u.nodes), len(u.edges)
	if m == 0 {
		return nil, errors.New("graph has no edges")
	}
	a := data.NewConstantMatrix(n-1, m, 0)
	for e, edge := range u.edges {
		if i := u.nodeIdx[edge.U]; i < n-1 {
			a[i][e] = 1
		}
		if i := u.nodeIdx[edge.V]; i < n-1 {
			a[i][e] = -1
		}
	}

	k, err := data.GramProjection(a)
	if err != nil {
		return nil, err
	}
	u.kernel = k

	return u.kernel, nil
}

// Sample returns the edge set of a uniformly random spanning tree,
// drawn with the requested algorithm.
func (u *UST) Sample(mode Mode, src rand.Source) ([]Edge, error) {
	switch mode {
	case ModeWilson, Mode(""):
		return u.sampleWilson(src), nil
	case ModeAldousBroder:
		return u.sampleAldousBroder(src), nil
	case ModeGS:
		return u.sampleKernel(src)
	default:
		return nil, errors.Errorf("unknown sampling mode %q", mode)
	}
}

// sampleWilson builds the tree from loop-erased random walks rooted at
// a uniformly chosen vertex.
func (u *UST) sampleWilson(src rand.Source) []Edge {
	rng := rand.New(sample.CheckSource(src))
	n := len(u.nodes)

	root := rng.IntN(n)
	inTree := make([]bool, n)
	inTree[root] = true
	next := make([]int, n)
	for i := range next {
		next[i] = -1
	}

	for i := 0; i < n; i++ {
		// random walk from i until the tree is hit; cycles are
		// erased implicitly by overwriting the successor pointers
		cur := i
		for !inTree[cur] {
			next[cur] = u.randomNeighbor(cur, rng)
			cur = next[cur]
		}
		cur = i
		for !inTree[cur] {
			inTree[cur] = true
			cur = next[cur]
		}
	}

	tree := make([]Edge, 0, n-1)
	for i := 0; i < n; i++ {
		if i == root {
			continue
		}
		tree = append(tree, canonical(u.nodes[i], u.nodes[next[i]]))
	}

	return tree
}

// sampleAldousBroder collects the first-entry edges of a random walk
// started at a uniformly chosen vertex.
func (u *UST) sampleAldousBroder(src rand.Source) []Edge {
	rng := rand.New(sample.CheckSource(src))
	n := len(u.nodes)

	cur := rng.IntN(n)
	visited := make([]bool, n)
	visited[cur] = true
	count := 1

	tree := make([]Edge, 0, n-1)
	for count < n {
		nb := u.randomNeighbor(cur, rng)
		if !visited[nb] {
			visited[nb] = true
			count++
			tree = append(tree, canonical(u.nodes[cur], u.nodes[nb]))
		}
		cur = nb
	}

	return tree
}

// sampleKernel samples the transfer current kernel as a projection DPP
// over the edges.
func (u *UST) sampleKernel(src rand.Source) ([]Edge, error) {
	k, err := u.Kernel()
	if err != nil {
		return nil, err
	}

	idx, err := finite.ProjectionSampleGS(k, len(u.nodes)-1, src)
	if err != nil {
		return nil, err
	}

	tree := make([]Edge, len(idx))
	for i, e := range idx {
		tree[i] = u.edges[e]
	}

	return tree, nil
}

func (u *UST) randomNeighbor(i int, rng *rand.Rand) int {
	neighbors := graph.NodesOf(u.g.From(u.nodes[i]))

	return u.nodeIdx[neighbors[rng.IntN(len(neighbors))].ID()]
}

func canonical(u, v int64) Edge {
	if u > v {
		u, v = v, u
	}

	return Edge{U: u, V: v}
}
