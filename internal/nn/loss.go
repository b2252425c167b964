package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/mlp/internal/tensor"
)

// CrossEntropyEpsilon is added to every probability before taking the log.
const CrossEntropyEpsilon = 1e-8

// OneHotVector returns a size-long vector with a 1 at index class.
func OneHotVector(class, size int) []float64 {
	if class < 0 || class >= size {
		panic(fmt.Sprintf("OneHotVector: class %d out of range [0, %d)", class, size))
	}
	v := make([]float64, size)
	v[class] = 1
	return v
}

// OneHot builds the (classes, len(labels)) target matrix whose j-th column is
// the one-hot vector of labels[j].
//
// Example:
//
//	OneHot([]int{2, 0}, 3) // columns [0,0,1] and [1,0,0]
func OneHot(labels []int, classes int) *tensor.Matrix {
	m := tensor.Zeros(classes, len(labels))
	for j, label := range labels {
		if label < 0 || label >= classes {
			panic(fmt.Sprintf("OneHot: label %d at column %d out of range [0, %d)", label, j, classes))
		}
		m.Set(label, j, 1)
	}
	return m
}

// CrossEntropy returns the mean cross-entropy of the (classes, batch)
// probability matrix pred against labels:
//
//	-sum(T ⊙ ln(pred + 1e-8)) / batch
func CrossEntropy(pred *tensor.Matrix, labels []int, classes int) float64 {
	if pred.Cols() != len(labels) || pred.Rows() != classes {
		panic(&tensor.ShapeError{
			Op:   "CrossEntropy",
			Want: tensor.Shape{Rows: classes, Cols: len(labels)},
			Got:  pred.Shape(),
		})
	}
	target := OneHot(labels, classes)
	logY := pred.Map(func(v float64) float64 { return math.Log(v + CrossEntropyEpsilon) })
	return -target.MulElem(logY).Sum() / float64(len(labels))
}

// ArgMax returns the predicted class of every column.
func ArgMax(pred *tensor.Matrix) []int {
	return pred.ArgMaxCols()
}
