package benchmarks

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zeu5/keyword-rl/adenv"
)

func printSummaries(w io.Writer, title string, summaries []adenv.FeatureSummary) {
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "%-18s %14s %14s %14s %14s\n", "feature", "mean", "std", "min", "max")
	fmt.Fprintln(w, strings.Repeat("-", 78))
	for _, s := range summaries {
		fmt.Fprintf(w, "%-18s %14.4f %14.4f %14.4f %14.4f\n", s.Name, s.Mean, s.StdDev, s.Min, s.Max)
	}
	fmt.Fprintln(w)
}

func DescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print feature statistics of the train and test partitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := interruptContext()
			defer stop()

			d, err := loadDataset(ctx, c, logger)
			if err != nil {
				return err
			}
			split, err := splitDataset(d, c, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Keywords (%d): %s\n\n", split.K, strings.Join(adenv.Block(split.Train[:split.K]).Keywords(), ", "))
			printSummaries(os.Stdout, fmt.Sprintf("Train: %d rows, %d blocks", split.TrainRows(), split.TrainBlocks), adenv.Describe(split.Train))
			printSummaries(os.Stdout, fmt.Sprintf("Test: %d rows, %d blocks", split.TestRows(), split.TestBlocks), adenv.Describe(split.Test))
			return nil
		},
	}
}
