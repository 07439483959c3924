package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/keyword-rl/adenv"
	"go.uber.org/zap"
)

func OrganizeCommand() *cobra.Command {
	var out string
	var maxSteps int

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Organize a keyword-major metrics file into time blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-steps") {
				c.Data.MaxSteps = maxSteps
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
			indexer, err := adenv.NewIndexer(d)
			if err != nil {
				return err
			}
			if err := adenv.WriteFile(out, d); err != nil {
				return err
			}
			logger.Info("organized dataset written",
				zap.String("path", out),
				zap.Int("rows", d.Len()),
				zap.Int("keywords", indexer.K()),
				zap.Int("blocks", indexer.NumBlocks()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "organized.csv", "Path of the organized CSV file")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 5000, "Maximum steps kept per keyword")
	return cmd
}
