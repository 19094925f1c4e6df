package artifacts

import (
	"encoding/json"
	"fmt"
)

const (
	modelKindLinear       = "linear"
	modelKindTreeEnsemble = "tree_ensemble"

	aggregationMean = "mean"
	aggregationSum  = "sum"
)

func copyNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func checkWidth(names []string, row []float64) error {
	if len(row) != len(names) {
		return fmt.Errorf("expected %d features, got %d", len(names), len(row))
	}
	return nil
}

// LinearRegressor is intercept + coefficients·row.
type LinearRegressor struct {
	Names        []string
	Coefficients []float64
	Intercept    float64
}

func (m *LinearRegressor) FeatureNames() []string {
	return copyNames(m.Names)
}

func (m *LinearRegressor) Predict(row []float64) (float64, error) {
	if err := checkWidth(m.Names, row); err != nil {
		return 0, err
	}
	if len(m.Coefficients) != len(m.Names) {
		return 0, fmt.Errorf("model has %d coefficients for %d features", len(m.Coefficients), len(m.Names))
	}
	y := m.Intercept
	for i, x := range row {
		y += m.Coefficients[i] * x
	}
	return y, nil
}

// Tree is a binary regression tree in flat array form. Node i is a leaf
// when ChildrenLeft[i] == -1; otherwise rows with x[Feature[i]] <= Threshold[i]
// descend left.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

func (t *Tree) validate(numFeatures int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == -1 {
			continue
		}
		// children always come after their parent, which also rules out cycles
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("node %d has invalid children %d/%d", i, left, right)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= numFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, t.Feature[i], numFeatures)
		}
	}
	return nil
}

func (t *Tree) predict(row []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != -1 {
		if row[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// TreeEnsemble covers both bagged forests (Aggregation "mean") and boosted
// trees (Aggregation "sum", scaled by LearningRate on top of BaseScore).
type TreeEnsemble struct {
	Names        []string
	Trees        []Tree
	Aggregation  string
	BaseScore    float64
	LearningRate float64
}

func (m *TreeEnsemble) FeatureNames() []string {
	return copyNames(m.Names)
}

func (m *TreeEnsemble) Predict(row []float64) (float64, error) {
	if err := checkWidth(m.Names, row); err != nil {
		return 0, err
	}
	if len(m.Trees) == 0 {
		return 0, fmt.Errorf("ensemble has no trees")
	}

	var sum float64
	for i := range m.Trees {
		sum += m.Trees[i].predict(row)
	}

	switch m.Aggregation {
	case aggregationMean:
		return m.BaseScore + sum/float64(len(m.Trees)), nil
	case aggregationSum:
		return m.BaseScore + m.LearningRate*sum, nil
	default:
		return 0, fmt.Errorf("unsupported aggregation %q", m.Aggregation)
	}
}

type modelFile struct {
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Aggregation  string    `json:"aggregation"`
	BaseScore    float64   `json:"base_score"`
	LearningRate *float64  `json:"learning_rate"`
	Trees        []Tree    `json:"trees"`
}

func decodeModel(data []byte) (Regressor, error) {
	var f modelFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(f.FeatureNames) == 0 {
		return nil, fmt.Errorf("model declares no feature names")
	}

	switch f.Kind {
	case modelKindLinear:
		if len(f.Coefficients) != len(f.FeatureNames) {
			return nil, fmt.Errorf("linear model has %d coefficients for %d features",
				len(f.Coefficients), len(f.FeatureNames))
		}
		return &LinearRegressor{
			Names:        f.FeatureNames,
			Coefficients: f.Coefficients,
			Intercept:    f.Intercept,
		}, nil

	case modelKindTreeEnsemble:
		if len(f.Trees) == 0 {
			return nil, fmt.Errorf("tree ensemble has no trees")
		}
		for i := range f.Trees {
			if err := f.Trees[i].validate(len(f.FeatureNames)); err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
		}
		agg := f.Aggregation
		if agg == "" {
			agg = aggregationMean
		}
		if agg != aggregationMean && agg != aggregationSum {
			return nil, fmt.Errorf("unsupported aggregation %q", agg)
		}
		lr := 1.0
		if f.LearningRate != nil {
			lr = *f.LearningRate
		}
		return &TreeEnsemble{
			Names:        f.FeatureNames,
			Trees:        f.Trees,
			Aggregation:  agg,
			BaseScore:    f.BaseScore,
			LearningRate: lr,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported model kind %q", f.Kind)
	}
}
