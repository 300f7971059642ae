package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"prospectus/internal/server"
)

var (
	servePort int
	serveLoad string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(cfg, zap.L())
		if err != nil {
			return err
		}
		if serveLoad != "" {
			if _, err := loadFile(ctx, a, serveLoad); err != nil {
				return err
			}
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := server.New(a.assistant, a.metrics, server.Config{
			Port:           port,
			MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
			CORSOrigins:    cfg.Server.CORSOrigins,
		}, zap.L())
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveLoad, "load", "", "ingest this PDF or text file before serving")
	rootCmd.AddCommand(serveCmd)
}
