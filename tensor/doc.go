// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 matrices that networks operate on.
//
// # Overview
//
// A Matrix is a row-major (rows, cols) matrix backed by gonum. Networks use
// the feature × batch layout: each column is one sample.
//
// # Basic Usage
//
//	import "github.com/born-ml/mlp/tensor"
//
//	func main() {
//	    x := tensor.FromColumns([][]float64{{1, 2}, {3, 4}}) // 2 features, 2 samples
//	    w := tensor.Full(3, 2, 0.5)
//	    y := tensor.MatMul(w, x)                              // (3, 2)
//	    fmt.Println(y.SumRows())                              // (3, 1)
//	}
//
// # Shape Errors
//
// Operations panic with a *ShapeError when operand shapes disagree. The error
// matches ErrShapeMismatch:
//
//	defer func() {
//	    if r := recover(); r != nil {
//	        err := r.(*tensor.ShapeError)
//	        fmt.Println(errors.Is(err, tensor.ErrShapeMismatch)) // true
//	    }
//	}()
//
// # Parallelism
//
// Element-wise kernels split large matrices into row ranges processed by
// MLP_NUM_THREADS workers. Results do not depend on the worker count.
package tensor
