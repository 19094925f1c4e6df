package artifacts

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ClassEncoder encodes a label as its index in a sorted vocabulary.
type ClassEncoder struct {
	classes []string
}

// NewClassEncoder requires classes to be sorted and free of duplicates,
// which is how fitted vocabularies are exported.
func NewClassEncoder(classes []string) (*ClassEncoder, error) {
	for i := 1; i < len(classes); i++ {
		if classes[i-1] >= classes[i] {
			return nil, fmt.Errorf("classes must be sorted and unique: %q before %q", classes[i-1], classes[i])
		}
	}
	c := make([]string, len(classes))
	copy(c, classes)
	return &ClassEncoder{classes: c}, nil
}

func (e *ClassEncoder) Transform(label string) (int, error) {
	i := sort.SearchStrings(e.classes, label)
	if i < len(e.classes) && e.classes[i] == label {
		return i, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
}

func (e *ClassEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

type encoderFile struct {
	Kind    string   `json:"kind"`
	Classes []string `json:"classes"`
}

func decodeEncoder(data []byte) (LabelEncoder, error) {
	var f encoderFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode encoder: %w", err)
	}
	if f.Kind != "label" {
		return nil, fmt.Errorf("unsupported encoder kind %q", f.Kind)
	}
	return NewClassEncoder(f.Classes)
}
