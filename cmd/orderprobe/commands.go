package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rafabd1/orderprobe/internal/config"
	"github.com/rafabd1/orderprobe/internal/variants"
)

// newRootCmd builds the command tree around a private viper instance, so tests
// can build as many independent trees as they like.
func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "orderprobe",
		Short: "Probe POST /api/orders/createOrder with a fixed set of payload variants",
		Long: `orderprobe sends seven hand-crafted createOrder payloads, one after another,
and prints the request and the raw response for each, so you can see which
fields the remote API requires or rejects.

BASE_URL and API_TOKEN are read from the environment; flags override them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.SetDefaults(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("base-url", config.DefaultBaseURL, "Base URL of the orders API (env BASE_URL)")
	flags.String("token", "", "Bearer token (env API_TOKEN)")
	flags.String("path", config.DefaultPath, "Endpoint path")
	flags.Duration("timeout", config.DefaultTimeout, "Per-request timeout")
	flags.String("transport", config.TransportHTTP, "Transport: http or raw")
	flags.String("proxy", "", "Proxy for the http transport (host:port or scheme://[user:pass@]host:port)")
	flags.Bool("insecure", false, "Skip TLS certificate verification")
	flags.String("user-agent", config.DefaultUserAgent, "User-Agent header")
	flags.StringSlice("variant", []string{}, "Only run these variants (repeatable, comma-separated)")
	flags.Bool("dry-run", false, "Print the requests without sending them")
	flags.String("format", config.FormatText, "Summary format: text or json")
	flags.Bool("show-token", false, "Print the bearer token unmasked")
	flags.String("verbosity", "info", "Log level (debug, info, warn, error, fatal)")
	flags.Bool("no-color", false, "Disable colored log output")
	flags.Bool("silent", false, "Suppress non-error logs")

	bindFlags(v, flags, map[string]string{
		config.KeyBaseURL:   "base-url",
		config.KeyAPIToken:  "token",
		config.KeyPath:      "path",
		config.KeyTimeout:   "timeout",
		config.KeyTransport: "transport",
		config.KeyProxy:     "proxy",
		config.KeyInsecure:  "insecure",
		config.KeyUserAgent: "user-agent",
		config.KeyVariants:  "variant",
		config.KeyDryRun:    "dry-run",
		config.KeyFormat:    "format",
		config.KeyShowToken: "show-token",
		config.KeyVerbosity: "verbosity",
		config.KeyNoColor:   "no-color",
		config.KeySilent:    "silent",
	})

	rootCmd.AddCommand(newRunCmd(v), newListCmd(), newVersionCmd())
	return rootCmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		// BindPFlag only fails on a nil flag, which would be a typo above.
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", name, err))
		}
	}
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Send every selected variant and print the responses (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, v)
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the variant names and payloads without sending anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, variant := range variants.Build() {
				body, err := json.MarshalIndent(variant.Payload, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode variant %s: %w", variant.Name, err)
				}
				fmt.Fprintf(out, "=== %s\n%s\n\n", variant.Name, body)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the orderprobe version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "orderprobe %s\n", version)
		},
	}
}
