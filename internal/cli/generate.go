package cli

import (
	"fmt"
	"os"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/events"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	count  int
	output string
	gen    events.GeneratorOptions
}

func newGenerateCommand(_ *rootOptions) *cobra.Command {
	opts := &generateOptions{gen: events.DefaultGeneratorOptions()}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic interaction events as CSV",
		Long: `Generate random user/device/IP events drawn from fixed pools and write them as CSV
with the header user,device,ip,event. The same seed always produces the same file.

Examples:
  fraud-rings generate > events.csv
  fraud-rings generate --count 1000 --seed 7 --output events.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", events.DefaultEventCount, "number of events to generate")
	cmd.Flags().Uint64Var(&opts.gen.Seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&opts.gen.Users, "users", opts.gen.Users, "size of the user pool")
	cmd.Flags().IntVar(&opts.gen.Devices, "devices", opts.gen.Devices, "size of the device pool")
	cmd.Flags().IntVar(&opts.gen.IPs, "ips", opts.gen.IPs, "size of the IP pool")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	if opts.count < 0 {
		return fmt.Errorf("count must not be negative, got %d", opts.count)
	}
	generated := events.Generate(opts.count, opts.gen)

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return events.WriteCSV(out, generated)
}
