package model

import (
	"fmt"

	"github.com/born-ml/mlp/internal/tensor"
)

// Dataset is a (features, samples) image matrix and one label per column.
type Dataset struct {
	Images *tensor.Matrix
	Labels []int
}

// Len returns the number of samples.
func (d Dataset) Len() int {
	return len(d.Labels)
}

// Batch returns the i-th contiguous batch of the given size.
func (d Dataset) Batch(i, size int) (*tensor.Matrix, []int) {
	from, to := i*size, (i+1)*size
	return d.Images.SliceCols(from, to), d.Labels[from:to]
}

// Validate checks that images and labels agree and every label is a class index.
func (d Dataset) Validate(featureDim, classes int) error {
	if d.Images == nil || len(d.Labels) == 0 {
		return fmt.Errorf("dataset is empty")
	}
	if d.Images.Cols() != len(d.Labels) {
		return fmt.Errorf("dataset has %d images but %d labels", d.Images.Cols(), len(d.Labels))
	}
	if featureDim > 0 && d.Images.Rows() != featureDim {
		return fmt.Errorf("dataset has %d features per image, model expects %d: %w",
			d.Images.Rows(), featureDim, tensor.ErrShapeMismatch)
	}
	for i, l := range d.Labels {
		if l < 0 || l >= classes {
			return fmt.Errorf("label %d at sample %d out of range [0, %d)", l, i, classes)
		}
	}
	return nil
}
