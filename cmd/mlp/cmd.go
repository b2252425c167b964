package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/mlp/internal/config"
	"github.com/born-ml/mlp/internal/dataset"
	"github.com/born-ml/mlp/internal/envconfig"
	"github.com/born-ml/mlp/internal/model"
	"github.com/born-ml/mlp/internal/render"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "v0.1.0-dev"

// Sizes of the generated sets when --synthetic is used without limits.
const (
	syntheticTrain = 1000
	syntheticTest  = 200
)

func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "mlp",
		Short:         "Train small feed-forward networks on MNIST",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: envconfig.LogLevel()})
			slog.SetDefault(slog.New(handler))
		},
		Run: func(cmd *cobra.Command, args []string) {
			if v, _ := cmd.Flags().GetBool("version"); v {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	trainCmd := newTrainCmd()
	envVars := envconfig.AsMap()
	appendEnvDocs(trainCmd, []envconfig.EnvVar{
		envVars["MLP_DEBUG"],
		envVars["MLP_DATA_DIR"],
		envVars["MLP_NUM_THREADS"],
		envVars["MLP_SEED"],
	})

	rootCmd.AddCommand(
		trainCmd,
		newEnvCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a network and report per-epoch test accuracy",
		Args:  cobra.NoArgs,
		RunE:  TrainHandler,
	}

	cmd.Flags().StringP("config", "c", "", "YAML file describing the network (default: 784-1000-10 Adam network)")
	cmd.Flags().String("data", "", "Directory holding the MNIST IDX files (default: $MLP_DATA_DIR)")
	cmd.Flags().Int("epochs", 0, "Override the number of epochs")
	cmd.Flags().Int("batch-size", 0, "Override the mini-batch size")
	cmd.Flags().Uint64("seed", 0, "Override the random seed")
	cmd.Flags().Int("max-samples", 0, "Use at most this many training samples (0 = all)")
	cmd.Flags().Int("max-test", 0, "Use at most this many test samples (0 = all)")
	cmd.Flags().Bool("synthetic", false, "Train on a generated separable dataset instead of MNIST")
	cmd.Flags().Bool("show", true, "Render the first test image with its predicted class")

	return cmd
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the effective environment configuration",
		Args:  cobra.NoArgs,
		RunE:  EnvHandler,
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run:   versionHandler,
	}
}

func versionHandler(cmd *cobra.Command, _ []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "mlp version %s\n", version)
}

// EnvHandler prints every recognised environment variable.
func EnvHandler(cmd *cobra.Command, _ []string) error {
	vars := envconfig.AsMap()
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var data [][]string
	for _, k := range keys {
		v := vars[k]
		data = append(data, []string{v.Name, fmt.Sprintf("%v", v.Value), v.Description})
	}

	table := newTable(cmd.OutOrStdout(), []string{"NAME", "VALUE", "DESCRIPTION"})
	table.AppendBulk(data)
	table.Render()
	return nil
}

// TrainHandler loads the configuration and data, trains the model and prints
// a summary followed by a prediction for the first test image.
func TrainHandler(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	cfg := config.Default()
	if path, _ := flags.GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}

	var o config.Overrides
	o.Epochs, _ = flags.GetInt("epochs")
	o.BatchSize, _ = flags.GetInt("batch-size")
	if flags.Changed("seed") {
		o.Seed, _ = flags.GetUint64("seed")
	} else if envconfig.Var("MLP_SEED") != "" {
		o.Seed = envconfig.Seed()
	}
	cfg.ApplyOverrides(o)
	if err := cfg.Validate(); err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))

	maxTrain, _ := flags.GetInt("max-samples")
	maxTest, _ := flags.GetInt("max-test")
	var train, test model.Dataset
	if synthetic, _ := flags.GetBool("synthetic"); synthetic {
		train = dataset.Synthetic(orDefault(maxTrain, syntheticTrain), cfg.Classes, cfg.FeatureDim(), rng)
		test = dataset.Synthetic(orDefault(maxTest, syntheticTest), cfg.Classes, cfg.FeatureDim(), rng)
	} else {
		dir, _ := flags.GetString("data")
		if dir == "" {
			dir = envconfig.DataDir()
		}
		var err error
		train, test, err = dataset.LoadMNIST(ctx, dataset.Options{Dir: dir, MaxTrain: maxTrain, MaxTest: maxTest})
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
	}

	m, err := cfg.Build(rng)
	if err != nil {
		return err
	}

	stats, err := m.Train(ctx, train, test)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSummary(out, stats)

	sample := test.Images.SliceCols(0, 1)
	pred := m.Eval(sample)[0]
	if show, _ := flags.GetBool("show"); show {
		if err := showImage(out, sample.Data()); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Predicted: %d\n", pred)
	return nil
}

func printSummary(w io.Writer, stats []model.EpochStats) {
	data := make([][]string, 0, len(stats))
	for _, s := range stats {
		data = append(data, []string{
			fmt.Sprintf("%d/%d", s.Epoch, s.Epochs),
			strconv.Itoa(s.Batches),
			strconv.FormatFloat(s.TrainLoss, 'f', 4, 64),
			fmt.Sprintf("%.2f%%", 100*s.TestAccuracy),
			s.Duration.Round(time.Millisecond).String(),
		})
	}

	table := newTable(w, []string{"EPOCH", "BATCHES", "TRAIN LOSS", "TEST ACCURACY", "DURATION"})
	table.AppendBulk(data)
	table.Render()
}

// showImage renders a square image, skipping inputs that are not square.
func showImage(w io.Writer, pixels []float64) error {
	side := int(math.Sqrt(float64(len(pixels))))
	if side*side != len(pixels) {
		slog.Debug("input is not a square image, not rendering", "features", len(pixels))
		return nil
	}

	color := false
	if f, ok := w.(*os.File); ok {
		color = render.IsTerminal(f)
	}
	if err := render.Image(w, pixels, side, color); err != nil {
		return fmt.Errorf("show image: %w", err)
	}
	return nil
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.SetAutoWrapText(false)
	return table
}

func orDefault(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}
