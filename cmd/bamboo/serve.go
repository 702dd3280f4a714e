package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/bamboo-dev/bamboo/internal/config"
	"github.com/bamboo-dev/bamboo/pkg/server"
	"github.com/bamboo-dev/bamboo/pkg/telemetry"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live preview server",
		Long: `Bind data to a template and serve it with a live preview.

Browser events are forwarded to the server over a WebSocket, run
through the bindings, and the updated markup is pushed back to
every open page.

Examples:
  bamboo serve -t page.html -d state.yaml
  bamboo serve --port=8080 --metrics
  BAMBOO_S3_REGION=eu-west-1 bamboo serve -t s3://site/page.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			var (
				rec *telemetry.Recorder
				reg *prometheus.Registry
			)
			if cfg.Metrics {
				reg = prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				rec = telemetry.NewRecorder(telemetry.WithRegistry(reg))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			vm, doc, err := mount(ctx, cfg, logger, rec)
			if err != nil {
				return err
			}

			srvCfg := &server.ServerConfig{
				Address:   cfg.Address(),
				Telemetry: rec,
				Logger:    logger,
			}
			if reg != nil {
				srvCfg.Gatherer = reg
			}
			srv, err := server.New(vm, doc, srvCfg)
			if err != nil {
				return err
			}

			printBanner()
			success("Serving %s", cfg.Template)
			info("http://%s", cfg.Address())
			if cfg.Metrics {
				info("metrics at http://%s/metrics", cfg.Address())
			}
			return srv.Run(ctx)
		},
	}

	addSourceFlags(cmd.Flags())
	cmd.Flags().StringP("host", "H", config.DefaultHost, "Host to bind to")
	cmd.Flags().IntP("port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().Bool("metrics", false, "Expose Prometheus metrics at /metrics")

	return cmd
}
