// Command rtreepack bulk loads rectangles from a CSV file into a block-file
// R-tree. Each CSV row holds 2*dims fields: the per-dimension minima followed
// by the per-dimension maxima. The row itself is stored as the leaf payload.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spatialpack/go-rtree/bulk"
	"github.com/spatialpack/go-rtree/rect"
	"github.com/spatialpack/go-rtree/storage"
)

type buildConfig struct {
	Dims           int     `toml:"dims"`
	BlockSize      int     `toml:"block_size"`
	Strategy       string  `toml:"strategy"`
	PartitionSize  int     `toml:"partition_size"`
	MinFanoutRatio float64 `toml:"min_fanout_ratio"`
	Utilization    float64 `toml:"utilization"`
	MaxPayload     int     `toml:"max_payload"`
	Async          bool    `toml:"async"`
	Verbose        bool    `toml:"verbose"`
}

func defaultBuildConfig() buildConfig {
	return buildConfig{
		Dims:           2,
		BlockSize:      4096,
		Strategy:       "gopt",
		PartitionSize:  20000,
		MinFanoutRatio: 0.5,
		Utilization:    0.8,
		MaxPayload:     256,
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rtreepack",
		Short:         "Bulk load packed R-trees",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBuildCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	cfg := defaultBuildConfig()
	var (
		input      string
		output     string
		configPath string
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a tree from a CSV of rectangles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
					return fmt.Errorf("config %s: %w", configPath, err)
				}
			}
			return runBuild(cmd.Context(), cfg, input, output)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV file of rectangles (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "tree.rtb", "block file to create")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().IntVar(&cfg.Dims, "dims", cfg.Dims, "dimension count")
	cmd.Flags().IntVar(&cfg.BlockSize, "block-size", cfg.BlockSize, "block size in bytes")
	cmd.Flags().StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "gopt|simple|fixedcount|str|tgs")
	cmd.Flags().IntVar(&cfg.PartitionSize, "partition-size", cfg.PartitionSize, "in-memory chunk bound")
	cmd.Flags().Float64Var(&cfg.MinFanoutRatio, "ratio", cfg.MinFanoutRatio, "minimum fan-out ratio")
	cmd.Flags().Float64Var(&cfg.Utilization, "utilization", cfg.Utilization, "target node fill")
	cmd.Flags().IntVar(&cfg.MaxPayload, "max-payload", cfg.MaxPayload, "maximum serialized payload bytes")
	cmd.Flags().BoolVar(&cfg.Async, "async", cfg.Async, "overlap node writes with partitioning")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "debug logging")
	cmd.MarkFlagRequired("input")
	return cmd
}

func runBuild(ctx context.Context, cfg buildConfig, input, output string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := zap.NewNop().Sugar()
	if cfg.Verbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer zl.Sync()
		log = zl.Sugar()
	}

	strategy, err := bulk.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	store, err := storage.CreateBlockFile(output, cfg.BlockSize)
	if err != nil {
		return err
	}
	defer store.Close()

	ser, err := bulk.NewCBORSerializer(cfg.MaxPayload)
	if err != nil {
		return err
	}
	builder, err := bulk.New(store, ser, cfg.Dims, cfg.BlockSize,
		bulk.WithStrategy(strategy),
		bulk.WithPartitionSize(cfg.PartitionSize),
		bulk.WithMinFanoutRatio(cfg.MinFanoutRatio),
		bulk.WithUtilization(cfg.Utilization),
		func() bulk.Option {
			if cfg.Async {
				return bulk.WithAsyncWrites()
			}
			return func(*bulk.Options) {}
		}(),
		bulk.WithLogger(log),
	)
	if err != nil {
		return err
	}

	src := csvSource{r: csv.NewReader(f)}
	tree, err := builder.Build(ctx, &src, csvMapFunc(cfg.Dims))
	if err != nil {
		return err
	}
	if err := store.Sync(); err != nil {
		return err
	}

	fmt.Printf("root=%d height=%d nodes=%d blocks=%d\n",
		tree.Root, tree.Height, tree.Stats.Nodes, store.Len())
	return nil
}

type csvSource struct {
	r *csv.Reader
}

func (s *csvSource) Next() (any, bool, error) {
	row, err := s.r.Read()
	if err == io.EOF {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

func csvMapFunc(dims int) bulk.MapFunc {
	return func(item any) (rect.Rectangle, error) {
		row, ok := item.([]string)
		if !ok || len(row) < 2*dims {
			return rect.Rectangle{}, fmt.Errorf("row needs %d fields, got %v", 2*dims, item)
		}
		min := make([]float64, dims)
		max := make([]float64, dims)
		for i := 0; i < dims; i++ {
			var err error
			if min[i], err = strconv.ParseFloat(row[i], 64); err != nil {
				return rect.Rectangle{}, err
			}
			if max[i], err = strconv.ParseFloat(row[dims+i], 64); err != nil {
				return rect.Rectangle{}, err
			}
		}
		return rect.New(min, max)
	}
}
