package forecast

import (
	"fmt"
	"math/rand"
	"sort"
)

// treeParams bounds a single regression tree. maxFeatures > 0 enables
// per-split feature subsampling (used by the bagged ensemble); rng must be set
// whenever maxFeatures is.
type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	ccpAlpha        float64
	maxFeatures     int
	rng             *rand.Rand
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	samples   int
	sse       float64
}

func (n *treeNode) isLeaf() bool {
	return n.left == nil
}

// regressionTree is a CART regressor minimizing within-node variance.
type regressionTree struct {
	params treeParams
	root   *treeNode
	total  int
}

func newRegressionTree(params treeParams) *regressionTree {
	return &regressionTree{params: params}
}

func (t *regressionTree) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("tree fit: %d rows against %d labels", len(x), len(y))
	}
	indices := make([]int, len(x))
	for i := range indices {
		indices[i] = i
	}
	t.total = len(x)
	t.root = t.build(x, y, indices, 0)
	if t.params.ccpAlpha > 0 {
		t.prune(t.root)
	}
	return nil
}

func (t *regressionTree) Predict(row []float64) float64 {
	node := t.root
	for !node.isLeaf() {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func (t *regressionTree) build(x [][]float64, y []float64, indices []int, depth int) *treeNode {
	node := &treeNode{samples: len(indices)}
	node.value, node.sse = meanSSE(y, indices)

	if depth >= t.params.maxDepth || len(indices) < t.params.minSamplesSplit || node.sse == 0 {
		return node
	}

	feature, threshold, ok := t.bestSplit(x, y, indices)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range indices {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.params.minSamplesLeaf || len(right) < t.params.minSamplesLeaf {
		return node
	}

	node.feature = feature
	node.threshold = threshold
	node.left = t.build(x, y, left, depth+1)
	node.right = t.build(x, y, right, depth+1)
	return node
}

// bestSplit scans candidate (feature, threshold) pairs for the largest SSE
// reduction, honoring minSamplesLeaf on both children.
func (t *regressionTree) bestSplit(x [][]float64, y []float64, indices []int) (int, float64, bool) {
	p := len(x[indices[0]])
	candidates := t.candidateFeatures(p)

	bestFeature := -1
	bestThreshold := 0.0
	bestReduction := 1e-12
	_, parentSSE := meanSSE(y, indices)

	order := make([]int, len(indices))
	for _, feature := range candidates {
		copy(order, indices)
		f := feature
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		// Prefix sums over the sorted order let each threshold be scored in
		// constant time.
		leftSum, leftSq := 0.0, 0.0
		totalSum, totalSq := 0.0, 0.0
		for _, i := range order {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		for k := 0; k < len(order)-1; k++ {
			v := y[order[k]]
			leftSum += v
			leftSq += v * v

			if x[order[k]][f] == x[order[k+1]][f] {
				continue
			}
			nLeft := k + 1
			nRight := len(order) - nLeft
			if nLeft < t.params.minSamplesLeaf || nRight < t.params.minSamplesLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sseLeft := leftSq - leftSum*leftSum/float64(nLeft)
			sseRight := rightSq - rightSum*rightSum/float64(nRight)
			reduction := parentSSE - sseLeft - sseRight
			if reduction > bestReduction {
				bestReduction = reduction
				bestFeature = f
				bestThreshold = (x[order[k]][f] + x[order[k+1]][f]) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func (t *regressionTree) candidateFeatures(p int) []int {
	if t.params.maxFeatures <= 0 || t.params.maxFeatures >= p || t.params.rng == nil {
		all := make([]int, p)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := t.params.rng.Perm(p)
	return perm[:t.params.maxFeatures]
}

// prune collapses subtrees bottom-up when the per-leaf SSE saving (normalized
// by the training size) does not exceed ccpAlpha: weakest-link
// cost-complexity pruning.
func (t *regressionTree) prune(node *treeNode) (leaves int, sse float64) {
	if node.isLeaf() {
		return 1, node.sse
	}
	leftLeaves, leftSSE := t.prune(node.left)
	rightLeaves, rightSSE := t.prune(node.right)
	leaves = leftLeaves + rightLeaves
	sse = leftSSE + rightSSE

	alpha := (node.sse - sse) / float64(t.total) / float64(leaves-1)
	if alpha <= t.params.ccpAlpha {
		node.left = nil
		node.right = nil
		return 1, node.sse
	}
	return leaves, sse
}

func meanSSE(y []float64, indices []int) (mean float64, sse float64) {
	if len(indices) == 0 {
		return 0, 0
	}
	sum, sq := 0.0, 0.0
	for _, i := range indices {
		sum += y[i]
		sq += y[i] * y[i]
	}
	n := float64(len(indices))
	mean = sum / n
	sse = sq - sum*sum/n
	if sse < 0 {
		sse = 0
	}
	return mean, sse
}
