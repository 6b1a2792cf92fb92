package forecast

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// baggedForest is a bootstrap-aggregated ensemble of full-depth-bounded trees
// with per-split feature subsampling.
type baggedForest struct {
	params ForestParams
	trees  []*regressionTree
}

func newBaggedForest(params ForestParams) *baggedForest {
	return &baggedForest{params: params}
}

func (b *baggedForest) Fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 || n != len(y) {
		return fmt.Errorf("forest fit: %d rows against %d labels", n, len(y))
	}
	p := len(x[0])
	maxFeatures := b.params.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = p / 3
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	rng := rand.New(rand.NewSource(b.params.Seed))
	b.trees = make([]*regressionTree, b.params.Trees)
	for m := 0; m < b.params.Trees; m++ {
		sampleX := make([][]float64, n)
		sampleY := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			sampleX[i] = x[j]
			sampleY[i] = y[j]
		}

		tree := newRegressionTree(treeParams{
			maxDepth:        b.params.MaxDepth,
			minSamplesSplit: b.params.MinSamplesSplit,
			minSamplesLeaf:  b.params.MinSamplesLeaf,
			maxFeatures:     maxFeatures,
			rng:             rand.New(rand.NewSource(rng.Int63())),
		})
		if err := tree.Fit(sampleX, sampleY); err != nil {
			return fmt.Errorf("forest tree %d: %w", m, err)
		}
		b.trees[m] = tree
	}
	return nil
}

func (b *baggedForest) Predict(row []float64) float64 {
	preds := make([]float64, len(b.trees))
	for i, tree := range b.trees {
		preds[i] = tree.Predict(row)
	}
	return stat.Mean(preds, nil)
}

// boostedTrees is a sequential gradient-boosted ensemble of shallow trees
// fitted to residuals with a shrinkage learning rate.
type boostedTrees struct {
	params BoostingParams
	base   float64
	trees  []*regressionTree
}

func newBoostedTrees(params BoostingParams) *boostedTrees {
	return &boostedTrees{params: params}
}

func (b *boostedTrees) Fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 || n != len(y) {
		return fmt.Errorf("boosting fit: %d rows against %d labels", n, len(y))
	}

	b.base = stat.Mean(y, nil)
	current := make([]float64, n)
	for i := range current {
		current[i] = b.base
	}

	residuals := make([]float64, n)
	b.trees = make([]*regressionTree, 0, b.params.Rounds)
	for m := 0; m < b.params.Rounds; m++ {
		for i := range residuals {
			residuals[i] = y[i] - current[i]
		}

		tree := newRegressionTree(treeParams{
			maxDepth:        b.params.MaxDepth,
			minSamplesSplit: 2 * b.params.MinSamplesLeaf,
			minSamplesLeaf:  b.params.MinSamplesLeaf,
		})
		if err := tree.Fit(x, residuals); err != nil {
			return fmt.Errorf("boosting round %d: %w", m, err)
		}
		b.trees = append(b.trees, tree)

		for i, row := range x {
			current[i] += b.params.LearningRate * tree.Predict(row)
		}
	}
	return nil
}

func (b *boostedTrees) Predict(row []float64) float64 {
	v := b.base
	for _, tree := range b.trees {
		v += b.params.LearningRate * tree.Predict(row)
	}
	return v
}
