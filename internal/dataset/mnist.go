// Package dataset loads training data into the feature × sample layout the
// model consumes.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/born-ml/mlp/internal/model"
	"github.com/born-ml/mlp/internal/tensor"
)

// Standard MNIST file names. Each may also be present with a ".gz" suffix.
const (
	TrainImages = "train-images-idx3-ubyte"
	TrainLabels = "train-labels-idx1-ubyte"
	TestImages  = "t10k-images-idx3-ubyte"
	TestLabels  = "t10k-labels-idx1-ubyte"
)

// ImageSide is the width and height of an MNIST digit.
const ImageSide = 28

// Options controls MNIST loading.
type Options struct {
	Dir      string // Directory holding the four IDX files
	MaxTrain int    // Keep at most this many training samples (0 = all)
	MaxTest  int    // Keep at most this many test samples (0 = all)
}

// LoadMNIST reads the MNIST training and test sets from opts.Dir.
//
// The four files are read concurrently. Pixels are scaled to [0, 1] and each
// image becomes one column of the returned image matrices.
func LoadMNIST(ctx context.Context, opts Options) (train, test model.Dataset, err error) {
	var (
		trainImg, testImg *images
		trainLbl, testLbl []byte
	)

	g, ctx := errgroup.WithContext(ctx)
	readImg := func(name string, limit int, dst **images) func() error {
		return func() error {
			return readFile(ctx, filepath.Join(opts.Dir, name), func(f io.Reader) (err error) {
				*dst, err = readImages(f, limit)
				return err
			})
		}
	}
	readLbl := func(name string, limit int, dst *[]byte) func() error {
		return func() error {
			return readFile(ctx, filepath.Join(opts.Dir, name), func(f io.Reader) (err error) {
				*dst, err = readLabels(f, limit)
				return err
			})
		}
	}
	g.Go(readImg(TrainImages, opts.MaxTrain, &trainImg))
	g.Go(readLbl(TrainLabels, opts.MaxTrain, &trainLbl))
	g.Go(readImg(TestImages, opts.MaxTest, &testImg))
	g.Go(readLbl(TestLabels, opts.MaxTest, &testLbl))
	if err := g.Wait(); err != nil {
		return model.Dataset{}, model.Dataset{}, err
	}

	if train, err = assemble(trainImg, trainLbl); err != nil {
		return model.Dataset{}, model.Dataset{}, fmt.Errorf("training set: %w", err)
	}
	if test, err = assemble(testImg, testLbl); err != nil {
		return model.Dataset{}, model.Dataset{}, fmt.Errorf("test set: %w", err)
	}

	slog.Info("loaded mnist", "dir", opts.Dir, "train_size", train.Len(), "test_size", test.Len(),
		"features", train.Images.Rows())
	return train, test, nil
}

func readFile(ctx context.Context, path string, decode func(io.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := openIDX(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := decode(f); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// assemble turns raw images and labels into a Dataset with one normalized
// image per column.
func assemble(img *images, labels []byte) (model.Dataset, error) {
	if img.count == 0 {
		return model.Dataset{}, errors.New("no samples")
	}
	if img.count != len(labels) {
		return model.Dataset{}, fmt.Errorf("%d images but %d labels", img.count, len(labels))
	}

	features := img.rows * img.cols
	data := make([]float64, features*img.count)
	for j := range img.count {
		px := img.pixels[j*features : (j+1)*features]
		for i, v := range px {
			data[i*img.count+j] = float64(v) / 255
		}
	}

	ls := make([]int, len(labels))
	for i, l := range labels {
		ls[i] = int(l)
	}

	return model.Dataset{Images: tensor.New(features, img.count, data), Labels: ls}, nil
}
