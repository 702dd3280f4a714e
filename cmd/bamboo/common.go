package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/bamboo-dev/bamboo"
	"github.com/bamboo-dev/bamboo/internal/config"
	"github.com/bamboo-dev/bamboo/internal/errors"
	"github.com/bamboo-dev/bamboo/pkg/dom"
	"github.com/bamboo-dev/bamboo/pkg/source"
	"github.com/bamboo-dev/bamboo/pkg/telemetry"
)

// addSourceFlags registers the flags shared by render and serve. Their
// names match config keys, with "-" for "_" and "s3-" for "s3.".
func addSourceFlags(fs *pflag.FlagSet) {
	fs.StringP("template", "t", "", "Template file or s3://bucket/key")
	fs.StringP("data", "d", "", "Data file (JSON or YAML) or s3://bucket/key")
	fs.String("selector", config.DefaultSelector, "Host element selector (#id, .class or tag)")
	fs.String("prefix", config.DefaultPrefix, "Directive prefix")
	fs.Bool("dedupe", false, "Ignore repeated subscriber registrations")
	fs.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.String("s3-region", "", "S3 region (default $AWS_REGION)")
	fs.String("s3-endpoint", "", "S3 endpoint override, e.g. for MinIO")
	fs.Bool("s3-use-path-style", false, "Use path-style S3 addressing")
}

// loadConfig resolves configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if cfg.Template == "" {
		return nil, errors.New("E005").
			WithDetail("no template").
			WithSuggestion("Pass --template or set template in bamboo.yaml")
	}
	return cfg, nil
}

// newLogger builds a text logger on stderr at the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

func newLoader(cfg *config.Config, logger *slog.Logger) *source.Loader {
	opts := []source.Option{source.WithLogger(logger)}
	if source.IsS3(cfg.Template) || source.IsS3(cfg.Data) {
		client := source.NewS3Client(cfg.S3.Region, cfg.S3.Endpoint, cfg.S3.UsePathStyle)
		opts = append(opts, source.WithS3(source.NewS3Store(client)))
	}
	return source.NewLoader(opts...)
}

// mount loads the template and data and binds them.
func mount(ctx context.Context, cfg *config.Config, logger *slog.Logger, rec *telemetry.Recorder) (*bamboo.Instance, *dom.Node, error) {
	loader := newLoader(cfg, logger)

	doc, err := loader.Template(ctx, cfg.Template)
	if err != nil {
		return nil, nil, err
	}

	data := map[string]any{}
	if cfg.Data != "" {
		data, err = loader.Data(ctx, cfg.Data)
		if err != nil {
			return nil, nil, err
		}
	}

	vm, err := bamboo.New(bamboo.Options{
		Selector:  cfg.Selector,
		Document:  doc,
		Data:      data,
		Prefix:    cfg.Prefix,
		Logger:    logger,
		Telemetry: rec,
		Dedupe:    cfg.Dedupe,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("mounted", "config", cfg.String(), "stats", fmt.Sprintf("%+v", vm.Stats()))
	return vm, doc, nil
}

// parseSets turns key=value pairs into typed values. Values are read as
// YAML scalars, so "3" is an int and "true" a bool.
func parseSets(pairs []string) (map[string]any, []string, error) {
	out := make(map[string]any, len(pairs))
	keys := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, nil, errors.New("E005").
				WithDetailf("--set %q", pair).
				WithSuggestion("Use --set key=value")
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
			v = raw
		}
		if _, seen := out[key]; !seen {
			keys = append(keys, key)
		}
		out[key] = v
	}
	return out, keys, nil
}
