package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Node is one decision node in a classification tree. Leaves carry
// Feature == -1. Interior nodes route vectors left when
// x[Feature] <= Threshold.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Dist      []float64
}

// Tree is a CART classification tree stored as a flat node slice with the
// root at index 0.
type Tree struct {
	Nodes []Node
}

// leafDist walks the tree for x and returns the class distribution at the
// reached leaf.
func (t *Tree) leafDist(x []float64) []float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Feature < 0 {
			return n.Dist
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Forest is a trained random-forest classifier over job-role codes.
// It is immutable after training and safe for concurrent inference.
type Forest struct {
	Trees    []Tree
	Classes  int
	Features int
}

// PredictProba returns the probability distribution over class codes for a
// feature vector, averaged across all trees.
func (f *Forest) PredictProba(x []float64) []float64 {
	probs := make([]float64, f.Classes)
	for i := range f.Trees {
		for c, p := range f.Trees[i].leafDist(x) {
			probs[c] += p
		}
	}
	for c := range probs {
		probs[c] /= float64(len(f.Trees))
	}
	return probs
}

// ForestConfig controls forest growth. Zero values fall back to defaults.
type ForestConfig struct {
	Trees          int
	MaxDepth       int
	MinSamplesLeaf int
	Seed           int64
	Workers        int
}

func (c ForestConfig) withDefaults() ForestConfig {
	if c.Trees <= 0 {
		c.Trees = 150
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = 12
	}
	if c.MinSamplesLeaf <= 0 {
		c.MinSamplesLeaf = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

// GrowForest trains a forest on the given matrix and encoded labels.
// Trees grow in parallel, but each tree derives its randomness from
// cfg.Seed plus its own index, so results do not depend on scheduling.
func GrowForest(ctx context.Context, X [][]float64, y []int, classes int, cfg ForestConfig) (*Forest, error) {
	if len(X) == 0 {
		return nil, ErrEmptyDataset
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("matrix rows %d do not match labels %d", len(X), len(y))
	}

	cfg = cfg.withDefaults()
	features := len(X[0])
	trees := make([]Tree, cfg.Trees)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for t := range trees {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(cfg.Seed + int64(t)))

			samples := make([]int, len(X))
			for i := range samples {
				samples[i] = rng.Intn(len(X))
			}

			trees[t] = growTree(X, y, samples, classes, cfg, rng)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Forest{Trees: trees, Classes: classes, Features: features}, nil
}

type treeBuilder struct {
	X       [][]float64
	y       []int
	classes int
	cfg     ForestConfig
	rng     *rand.Rand
	nodes   []Node
}

func growTree(X [][]float64, y []int, samples []int, classes int, cfg ForestConfig, rng *rand.Rand) Tree {
	b := &treeBuilder{X: X, y: y, classes: classes, cfg: cfg, rng: rng}
	b.build(samples, 0)
	return Tree{Nodes: b.nodes}
}

func (b *treeBuilder) build(samples []int, depth int) int {
	counts := make([]int, b.classes)
	for _, s := range samples {
		counts[b.y[s]]++
	}

	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{
		Feature: -1,
		Dist:    distribution(counts, len(samples)),
	})

	if depth >= b.cfg.MaxDepth || len(samples) < 2*b.cfg.MinSamplesLeaf || isPure(counts) {
		return idx
	}

	feature, threshold, ok := b.bestSplit(samples, counts)
	if !ok {
		return idx
	}

	var left, right []int
	for _, s := range samples {
		if b.X[s][feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)

	b.nodes[idx].Feature = feature
	b.nodes[idx].Threshold = threshold
	b.nodes[idx].Left = l
	b.nodes[idx].Right = r
	return idx
}

// bestSplit evaluates a random sqrt-sized feature subset and returns the
// split with the highest gini gain. Candidate features are sorted after
// sampling so ties resolve the same way on every run with the same seed.
// When the subset yields no valid split, the search widens through the
// rest of the seeded permutation one feature at a time; a node becomes an
// impure leaf only when no feature at all can partition it.
func (b *treeBuilder) bestSplit(samples []int, counts []int) (int, float64, bool) {
	features := len(b.X[0])
	mtry := max(1, int(math.Sqrt(float64(features))))

	perm := b.rng.Perm(features)
	primary := perm[:mtry]
	slices.Sort(primary)

	parent := gini(counts, len(samples))
	n := float64(len(samples))

	var (
		bestGain      float64
		bestFeature   = -1
		bestThreshold float64
	)

	pairs := make([]sampleValue, len(samples))
	left := make([]int, b.classes)
	right := make([]int, b.classes)

	scan := func(f int) {
		for i, s := range samples {
			pairs[i] = sampleValue{value: b.X[s][f], label: b.y[s]}
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].value < pairs[j].value })

		clear(left)
		copy(right, counts)

		for i := 0; i < len(pairs)-1; i++ {
			left[pairs[i].label]++
			right[pairs[i].label]--

			if pairs[i].value == pairs[i+1].value {
				continue
			}

			nl := i + 1
			nr := len(pairs) - nl
			if nl < b.cfg.MinSamplesLeaf || nr < b.cfg.MinSamplesLeaf {
				continue
			}

			gain := parent - (float64(nl)*gini(left, nl)+float64(nr)*gini(right, nr))/n
			if gain > bestGain+1e-12 {
				bestGain = gain
				bestFeature = f
				bestThreshold = (pairs[i].value + pairs[i+1].value) / 2
			}
		}
	}

	for _, f := range primary {
		scan(f)
	}
	for _, f := range perm[mtry:] {
		if bestFeature >= 0 {
			break
		}
		scan(f)
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

type sampleValue struct {
	value float64
	label int
}

func distribution(counts []int, total int) []float64 {
	dist := make([]float64, len(counts))
	if total == 0 {
		return dist
	}
	for c, count := range counts {
		dist[c] = float64(count) / float64(total)
	}
	return dist
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, count := range counts {
		p := float64(count) / float64(total)
		impurity -= p * p
	}
	return impurity
}

func isPure(counts []int) bool {
	nonzero := 0
	for _, count := range counts {
		if count > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}
