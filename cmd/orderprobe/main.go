package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rafabd1/orderprobe/internal/config"
	"github.com/rafabd1/orderprobe/internal/core"
	"github.com/rafabd1/orderprobe/internal/networking"
	"github.com/rafabd1/orderprobe/internal/report"
	"github.com/rafabd1/orderprobe/internal/utils"
	"github.com/rafabd1/orderprobe/internal/variants"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// runProbe is the body of the root and run commands: one pass over the selected variants.
func runProbe(cmd *cobra.Command, v *viper.Viper) error {
	cfg := config.Load(v)
	if !utils.IsTerminal(os.Stdout) {
		cfg.NoColor = true
	}
	logOut := cmd.OutOrStdout()
	if cfg.OutputFormat == config.FormatJSON {
		logOut = cmd.ErrOrStderr()
	}
	logger := utils.NewLogger(logOut, cmd.ErrOrStderr(), utils.StringToLogLevel(cfg.Verbosity), cfg.NoColor, cfg.Silent)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debugf("Configuration: %s", cfg)

	selected, err := variants.Select(variants.Build(), cfg.Variants)
	if err != nil {
		return err
	}

	transport, err := newTransport(cfg, logger)
	if err != nil {
		return fmt.Errorf("error creating %s transport: %w", cfg.Transport, err)
	}
	logger.Debugf("Transport %q initialized with timeout %s", cfg.Transport, cfg.RequestTimeout)

	runID := uuid.NewString()
	opts := report.Options{
		Format:    cfg.OutputFormat,
		ShowToken: cfg.ShowToken,
		RunID:     runID,
	}
	trafficOut := cmd.OutOrStdout()
	if cfg.OutputFormat == config.FormatJSON {
		// Keep stdout clean for the JSON document.
		trafficOut = cmd.ErrOrStderr()
		opts.SummaryWriter = cmd.OutOrStdout()
	}
	reporter := report.NewReporter(trafficOut, opts)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("Run %s: probing %d variants against %s", runID, len(selected), utils.JoinURL(cfg.BaseURL, cfg.Path))

	runner := core.NewRunner(cfg, transport, selected, reporter, logger)
	results, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	return reporter.Summary(results)
}

func newTransport(cfg *config.Config, logger utils.Logger) (networking.Transport, error) {
	proxyURL, err := utils.ParseProxyInput(cfg.ProxyInput, logger)
	if err != nil {
		return nil, err
	}

	clientConfig := networking.ClientConfig{
		Timeout:            cfg.RequestTimeout,
		ProxyURL:           proxyURL,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.Transport == config.TransportRaw {
		raw, err := networking.NewRawClient(clientConfig, logger)
		if err != nil {
			return nil, err
		}
		return raw, nil
	}

	client, err := networking.NewClient(clientConfig, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}
