package regression

import (
	"context"
	"fmt"

	"github.com/yanqian/solarcook/internal/domain/regressor"
)

// Leaf marks a node without children.
const Leaf = -1

// Node is one decision-tree node. Samples with x[Feature] <= Threshold go left.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

// Tree is a flat node array rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Aggregation selects how tree outputs combine.
type Aggregation string

const (
	// AggregateMean averages the trees (random forest).
	AggregateMean Aggregation = "mean"
	// AggregateSum adds scaled tree outputs to a base (gradient boosting).
	AggregateSum Aggregation = "sum"
)

// ForestConfig describes a tree ensemble.
type ForestConfig struct {
	Inputs       int
	Outputs      int
	Trees        []Tree
	Aggregation  Aggregation
	Base         []float64
	LearningRate float64
}

// Forest evaluates a tree ensemble.
type Forest struct {
	cfg ForestConfig
}

// NewForest validates the ensemble structure.
func NewForest(cfg ForestConfig) (*Forest, error) {
	if cfg.Inputs <= 0 || cfg.Outputs <= 0 {
		return nil, fmt.Errorf("forest widths must be positive, got %d->%d", cfg.Inputs, cfg.Outputs)
	}
	if len(cfg.Trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	switch cfg.Aggregation {
	case "":
		cfg.Aggregation = AggregateMean
	case AggregateMean:
	case AggregateSum:
		if cfg.Base == nil {
			cfg.Base = make([]float64, cfg.Outputs)
		}
		if len(cfg.Base) != cfg.Outputs {
			return nil, fmt.Errorf("forest base has %d values, want %d", len(cfg.Base), cfg.Outputs)
		}
		if cfg.LearningRate == 0 {
			cfg.LearningRate = 1
		}
	default:
		return nil, fmt.Errorf("unknown forest aggregation %q", cfg.Aggregation)
	}
	for t, tree := range cfg.Trees {
		if err := validateTree(tree, cfg.Inputs, cfg.Outputs); err != nil {
			return nil, fmt.Errorf("tree %d: %w", t, err)
		}
	}
	return &Forest{cfg: cfg}, nil
}

// children always point forward so traversal terminates
func validateTree(tree Tree, inputs, outputs int) error {
	if len(tree.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range tree.Nodes {
		if n.Left == Leaf {
			if len(n.Value) != outputs {
				return fmt.Errorf("leaf %d has %d values, want %d", i, len(n.Value), outputs)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= inputs {
			return fmt.Errorf("node %d splits on feature %d, model has %d", i, n.Feature, inputs)
		}
		if n.Left <= i || n.Left >= len(tree.Nodes) || n.Right <= i || n.Right >= len(tree.Nodes) {
			return fmt.Errorf("node %d has invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

// Shape reports the model's widths.
func (f *Forest) Shape() regressor.Shape {
	return regressor.Shape{Inputs: f.cfg.Inputs, Outputs: f.cfg.Outputs}
}

// Predict implements regressor.Regressor.
func (f *Forest) Predict(ctx context.Context, rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(row) != f.cfg.Inputs {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), f.cfg.Inputs)
		}
		out[i] = f.predictRow(row)
	}
	return out, nil
}

func (f *Forest) predictRow(row []float64) []float64 {
	acc := make([]float64, f.cfg.Outputs)
	for _, tree := range f.cfg.Trees {
		leaf := walk(tree, row)
		for j, v := range leaf {
			acc[j] += v
		}
	}
	switch f.cfg.Aggregation {
	case AggregateSum:
		for j := range acc {
			acc[j] = f.cfg.Base[j] + f.cfg.LearningRate*acc[j]
		}
	default:
		n := float64(len(f.cfg.Trees))
		for j := range acc {
			acc[j] /= n
		}
	}
	return acc
}

func walk(tree Tree, row []float64) []float64 {
	idx := 0
	for {
		n := tree.Nodes[idx]
		if n.Left == Leaf {
			return n.Value
		}
		if row[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

var _ regressor.Regressor = (*Forest)(nil)
