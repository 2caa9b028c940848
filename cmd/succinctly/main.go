// Command succinctly navigates and validates JSON files through the
// semi-index, without ever parsing values it does not print.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rust-works/succinctly"
	sjson "github.com/rust-works/succinctly/json"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:           "succinctly",
		Short:         "Semi-indexed JSON navigation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newGetCmd(), newValidateCmd(), newStatsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func logger() *succinctly.Logger {
	if verbose {
		return succinctly.NewTextLogger(slog.LevelDebug)
	}
	return succinctly.NoopLogger()
}

func indexFile(path string) (*succinctly.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return succinctly.IndexJSON(data, succinctly.WithLogger(logger()))
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print the value at a dot/bracket path (e.g. .users[2].name)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := indexFile(args[0])
			if err != nil {
				return err
			}
			steps, err := parsePath(args[1])
			if err != nil {
				return err
			}
			cur, ok := doc.Root()
			if !ok {
				return fmt.Errorf("%s: empty document", args[0])
			}
			for _, s := range steps {
				cur, ok = s.apply(cur)
				if !ok {
					return fmt.Errorf("path %s: no such element", args[1])
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", cur.ValueBytes())
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	var checkUTF8 bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Strictly validate a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if checkUTF8 {
				err = sjson.ValidateUTF8(data)
			} else {
				err = sjson.Validate(data)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkUTF8, "utf8", false, "also require well-formed UTF-8")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Show index sizes and overhead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := indexFile(args[0])
			if err != nil {
				return err
			}
			idx := doc.Index
			ibBytes := len(idx.IB().Words()) * 8
			bpBytes := len(idx.BP().Bits().Words()) * 8
			offBytes := 8 * idx.NumNodes()
			total := ibBytes + bpBytes + offBytes
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source:      %d bytes\n", idx.SourceLen())
			fmt.Fprintf(out, "nodes:       %d\n", idx.NumNodes())
			fmt.Fprintf(out, "ib bits:     %d (%d bytes)\n", idx.IB().Len(), ibBytes)
			fmt.Fprintf(out, "bp bits:     %d (%d bytes)\n", idx.BP().Len(), bpBytes)
			fmt.Fprintf(out, "offsets:     %d bytes\n", offBytes)
			if idx.SourceLen() > 0 {
				fmt.Fprintf(out, "overhead:    %.1f%%\n", 100*float64(total)/float64(idx.SourceLen()))
			}
			return nil
		},
	}
}
