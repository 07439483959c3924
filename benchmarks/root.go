package benchmarks

import "github.com/spf13/cobra"

var (
	configPath string
	dataPath   string
	trainRatio float64
	saveFile   string
	runs       int
	totalSteps int
	horizon    int
	logLevel   string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "keyword-rl",
		Short:        "Keyword selection environment over advertising metrics",
		SilenceUsage: true,
	}
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration file")
	rootCommand.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "Path to the keyword metrics CSV file")
	rootCommand.PersistentFlags().Float64Var(&trainRatio, "train-ratio", 0.8, "Fraction of the blocks used for training")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().IntVar(&totalSteps, "steps", 10000, "Training timesteps per run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 1000, "Horizon of each episode")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	// adding the subcommands here
	rootCommand.AddCommand(OrganizeCommand())
	rootCommand.AddCommand(DescribeCommand())
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(ServeCommand())
	return rootCommand
}
