package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyNet = `
epochs: 2
batch_size: 10
classes: 4
layers:
  - {kind: affine, in: 16, out: 8, optimizer: adam}
  - {kind: relu, in: 8, out: 8}
  - {kind: affine, in: 8, out: 4, optimizer: momentum_sgd}
  - {kind: softmax, in: 4, out: 4}
adam:
  lr: 0.01
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCLI()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func TestTrain_Synthetic(t *testing.T) {
	out, err := run(t, "train", "--synthetic", "--config", writeConfig(t, tinyNet),
		"--max-samples", "40", "--max-test", "8", "--seed", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "TEST ACCURACY")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "2/2")
	assert.Regexp(t, `Predicted: [0-3]\n$`, out)

	// 16 features render as a 4x4 image between the table and the prediction.
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	for _, l := range lines[len(lines)-5 : len(lines)-1] {
		assert.Len(t, l, 4)
	}
}

func TestTrain_Overrides(t *testing.T) {
	out, err := run(t, "train", "--synthetic", "--config", writeConfig(t, tinyNet),
		"--max-samples", "20", "--max-test", "4", "--epochs", "1", "--batch-size", "5", "--show=false")
	require.NoError(t, err)

	assert.Contains(t, out, "1/1")
	assert.NotContains(t, out, "2/2")

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "Predicted: "))
	assert.Contains(t, lines[len(lines)-2], "1/1", "no image expected")
}

func TestTrain_Errors(t *testing.T) {
	_, err := run(t, "train", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "open config")

	_, err = run(t, "train", "--config", writeConfig(t, "classes: 3\nlayers:\n  - {kind: lstm, in: 3, out: 3}\n"))
	assert.ErrorContains(t, err, "unknown layer")

	_, err = run(t, "train", "--config", writeConfig(t, tinyNet), "--data", t.TempDir())
	assert.ErrorContains(t, err, "load dataset")

	_, err = run(t, "train", "--synthetic", "--config", writeConfig(t, tinyNet), "--max-samples", "5")
	assert.Error(t, err, "fewer samples than one batch")
}

func TestEnv(t *testing.T) {
	t.Setenv("MLP_DATA_DIR", "/data/mnist")

	out, err := run(t, "env")
	require.NoError(t, err)

	for _, name := range []string{"MLP_DEBUG", "MLP_DATA_DIR", "MLP_NUM_THREADS", "MLP_SEED"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "/data/mnist")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mlp version "+version+"\n", out)

	out, err = run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "mlp version "+version+"\n", out)
}
