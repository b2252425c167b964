package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/model"
	"github.com/born-ml/mlp/internal/tensor"
)

// Synthetic generates n linearly separable samples with dim features in [0, 1].
//
// Features are split into classes equal blocks. A sample of class c has the
// features of block c drawn from [0.75, 1] and every other feature from
// [0, 0.25]. Labels cycle 0, 1, ..., classes-1 so every batch is balanced.
func Synthetic(n, classes, dim int, rng *rand.Rand) model.Dataset {
	if n <= 0 || classes <= 0 || dim < classes {
		panic(fmt.Sprintf("dataset.Synthetic: need n > 0 and dim >= classes > 0, got n=%d classes=%d dim=%d",
			n, classes, dim))
	}

	block := dim / classes
	images := tensor.Zeros(dim, n)
	labels := make([]int, n)
	for j := range n {
		c := j % classes
		labels[j] = c
		for i := range dim {
			v := 0.25 * rng.Float64()
			if i/block == c {
				v = 0.75 + 0.25*rng.Float64()
			}
			images.Set(i, j, v)
		}
	}
	return model.Dataset{Images: images, Labels: labels}
}
