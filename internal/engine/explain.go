package engine

// Explainer produces per-feature attribution scores for every class given
// one feature vector. Scores are signed: positive values pushed the class's
// probability up, negative values pushed it down.
type Explainer interface {
	// Attributions returns one score slice per class code, each indexed by
	// feature column position.
	Attributions(x []float64) [][]float64
}

// TreeExplainer attributes a forest's prediction by walking each tree's
// decision path: every split credits the change in class distribution
// between a node and the chosen child to the split feature. Contributions
// are averaged across trees.
type TreeExplainer struct {
	forest *Forest
}

// NewTreeExplainer binds an explainer to a trained forest.
func NewTreeExplainer(forest *Forest) *TreeExplainer {
	return &TreeExplainer{forest: forest}
}

func (e *TreeExplainer) Attributions(x []float64) [][]float64 {
	contrib := make([][]float64, e.forest.Classes)
	for c := range contrib {
		contrib[c] = make([]float64, e.forest.Features)
	}

	for t := range e.forest.Trees {
		tree := &e.forest.Trees[t]
		i := 0
		for {
			n := &tree.Nodes[i]
			if n.Feature < 0 {
				break
			}

			next := n.Right
			if x[n.Feature] <= n.Threshold {
				next = n.Left
			}

			child := &tree.Nodes[next]
			for c := range contrib {
				contrib[c][n.Feature] += child.Dist[c] - n.Dist[c]
			}
			i = next
		}
	}

	trees := float64(len(e.forest.Trees))
	for c := range contrib {
		for f := range contrib[c] {
			contrib[c][f] /= trees
		}
	}
	return contrib
}
