// Package cli implements the fraud-rings command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/config"
	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/logger"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

// rootOptions carries state shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	logOutput  io.Writer

	cfg *config.Config
}

// NewRootCommand builds the command tree. Logs always go to stderr so that stdout stays free for
// the MCP stdio transport and for command output.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{logOutput: os.Stderr}

	cmd := &cobra.Command{
		Use:   "fraud-rings",
		Short: "Detect fraud rings by structural similarity of interaction neighborhoods",
		Long: `fraud-rings finds users, devices and IP addresses whose surrounding interaction
structure is alike, without any training data.

It can run as an MCP server backed by Neo4j (serve), analyse an events file offline
(analyze) or produce synthetic events to experiment with (generate).`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file overriding environment settings")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newAnalyzeCommand(opts))
	cmd.AddCommand(newGenerateCommand(opts))
	return cmd
}

// load resolves configuration as defaults, then environment, then the YAML file, then flags.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if o.configPath != "" {
		if err := cfg.LoadFile(o.configPath); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat, o.logOutput); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
