package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/insightlab/datasight/dataset"
	"github.com/insightlab/datasight/pipeline"
)

var (
	labelColumn string
	jsonOut     string
	topModels   int
	watchEvery  time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run the full analysis pipeline on a tabular file",
	Long: `Analyze a CSV, TSV, or XLSX file: infer column types, profile data
quality, clean the data, compute statistics, score features, train
baseline models, and print ranked findings.

With --watch the analysis re-runs on the given interval until
interrupted; a tick is skipped if the previous run is still in flight.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&labelColumn, "label", "",
		"label column for supervised training (default: synthetic alternating label)")
	analyzeCmd.Flags().StringVarP(&jsonOut, "output", "o", "",
		"write the full results aggregate as JSON to this file")
	analyzeCmd.Flags().IntVar(&topModels, "top-models", 3,
		"number of model results to print")
	analyzeCmd.Flags().DurationVar(&watchEvery, "watch", 0,
		"re-run the analysis on this interval (e.g. 30s); 0 disables")

	analyzeCmd.Flags().Int("sample-size", dataset.DefaultSampleSize,
		"rows sampled per column for type inference")
	analyzeCmd.Flags().Float64("split-ratio", 0.8, "ordered train/test split ratio")
	analyzeCmd.Flags().Int("forest-size", 10, "number of trees in the random forest")
	analyzeCmd.Flags().Int("clusters", 3, "k-means cluster count")
	analyzeCmd.Flags().Uint64("seed", 1, "random seed for bootstrap and clustering")

	viper.BindPFlag("sample_size", analyzeCmd.Flags().Lookup("sample-size"))
	viper.BindPFlag("split_ratio", analyzeCmd.Flags().Lookup("split-ratio"))
	viper.BindPFlag("forest_size", analyzeCmd.Flags().Lookup("forest-size"))
	viper.BindPFlag("clusters", analyzeCmd.Flags().Lookup("clusters"))
	viper.BindPFlag("seed", analyzeCmd.Flags().Lookup("seed"))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg := pipeline.DefaultConfig()
	cfg.LabelColumn = labelColumn
	cfg.SampleSize = viper.GetInt("sample_size")
	cfg.SplitRatio = viper.GetFloat64("split_ratio")
	cfg.ForestSize = viper.GetInt("forest_size")
	cfg.Clusters = viper.GetInt("clusters")
	cfg.Seed = viper.GetUint64("seed")
	p := pipeline.New(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchEvery > 0 {
		return watchFile(ctx, p, path)
	}

	ds, err := readFile(path)
	if err != nil {
		return err
	}
	results, err := p.Run(ctx, ds)
	if err != nil {
		return err
	}
	printResults(results)
	if jsonOut != "" {
		return exportJSON(results, jsonOut)
	}
	return nil
}

func readFile(path string) (*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return dataset.ReadExcelFile(path)
	default:
		return dataset.ReadCSVFile(path)
	}
}

func watchFile(ctx context.Context, p *pipeline.Pipeline, path string) error {
	sched, err := pipeline.NewScheduler(p, watchEvery, func(ctx context.Context) (*dataset.Dataset, error) {
		return readFile(path)
	})
	if err != nil {
		return err
	}
	if err := sched.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("Watching %s every %s, press Ctrl-C to stop\n", path, watchEvery)

	<-ctx.Done()
	sched.Stop()
	if results := sched.Latest(); results != nil {
		printResults(results)
		if jsonOut != "" {
			return exportJSON(results, jsonOut)
		}
	}
	return nil
}

func printResults(r *pipeline.AnalysisResults) {
	ds := r.Dataset
	fmt.Printf("\nDataset: %s (%s)\n", ds.Metadata.Source, humanize.Bytes(uint64(ds.Summary.MemoryBytes)))
	fmt.Printf("- Rows: %s  Columns: %d\n", humanize.Comma(int64(ds.Summary.TotalRows)), ds.Summary.TotalColumns)
	fmt.Printf("- Quality score: %.1f/100 (completeness %.1f%%, uniqueness %.1f%%, validity %.1f%%)\n",
		r.Quality.Score, 100*r.Quality.Completeness, 100*r.Quality.Uniqueness, 100*r.Quality.Validity)
	fmt.Printf("- Missing cells: %s  Duplicates: %s  Outliers: %s\n",
		humanize.Comma(int64(r.Quality.MissingCells)),
		humanize.Comma(int64(r.Quality.DuplicateRows)),
		humanize.Comma(int64(r.Quality.Outliers)))

	if len(r.Features.Selected) > 0 {
		fmt.Printf("\nTop features: %s\n", strings.Join(r.Features.Selected, ", "))
	}

	if len(r.Models) > 0 {
		fmt.Println("\nModels (held-out split):")
		limit := topModels
		if limit <= 0 || limit > len(r.Models) {
			limit = len(r.Models)
		}
		for _, m := range r.Models[:limit] {
			marker := " "
			if m.Recommended {
				marker = "*"
			}
			fmt.Printf("%s %-20s accuracy %.3f  precision %.3f  recall %.3f  F1 %.3f  (%s)\n",
				marker, m.Name, m.Accuracy, m.Precision, m.Recall, m.F1, m.TrainingTime.Round(time.Millisecond))
		}
		if r.Models[0].SyntheticLabel {
			fmt.Println("  (trained against a synthetic alternating label; metrics are illustrative)")
		}
	}

	if r.Clustering != nil {
		fmt.Printf("\nClustering: k=%d, sizes %v, inertia %.2f (%d iterations)\n",
			r.Clustering.Clusters, r.Clustering.Sizes, r.Clustering.Inertia, r.Clustering.Iterations)
	}

	if len(r.Recommendations) > 0 {
		fmt.Println("\nFindings:")
		for _, rec := range r.Recommendations {
			fmt.Println("-", rec)
		}
	}
	fmt.Printf("\nCompleted in %s\n", r.Elapsed.Round(time.Millisecond))
}

func exportJSON(r *pipeline.AnalysisResults, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
