package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/keyword-rl/server"
)

func ServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve train and test environments over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				c.Server.Addr = addr
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

			srv := server.NewServer(ctx, &server.Config{
				Addr:       c.Server.Addr,
				Train:      split.Train,
				Test:       split.Test,
				EnvOptions: envOptions(c, logger),
				Logger:     logger,
				SessionTTL: c.Server.SessionTTL,
			})
			srv.Start()
			<-srv.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	return cmd
}
