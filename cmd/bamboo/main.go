package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bamboo-dev/bamboo/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┏┓ ┏━┓┏┳┓┏┓ ┏━┓┏━┓
  ┣┻┓┣━┫┃┃┃┣┻┓┃ ┃┃ ┃
  ┗━┛╹ ╹╹ ╹┗━┛┗━┛┗━┛
`

func main() {
	if err := rootCmd().Execute(); err != nil {
		if be, ok := err.(*errors.BambooError); ok {
			fmt.Fprint(os.Stderr, be.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bamboo",
		Short: "Reactive data binding for HTML templates",
		Long: `Bamboo binds plain data to an HTML template.

Templates read data with {{ key }} interpolations and b-text,
b-html and b-model directives. Data files are JSON or YAML.
Both can live on disk or in S3 (s3://bucket/key).

Settings come from bamboo.yaml, BAMBOO_* environment variables
and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Config file (default ./bamboo.yaml if present)")

	cmd.AddCommand(
		renderCmd(),
		serveCmd(),
		versionCmd(),
	)
	return cmd
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
