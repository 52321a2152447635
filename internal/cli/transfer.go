package cli

import (
	"context"
	"fmt"
	"os"

	"guild_war_stats/internal/store"

	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full dataset as JSON",
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	cmd.RunE = runWithStore(func(ctx context.Context, s *store.GuildWarStore) error {
		serialized, err := s.Export(ctx)
		if err != nil {
			return err
		}

		if out == "" {
			fmt.Fprintln(cmd.OutOrStdout(), serialized)
			return nil
		}

		if err := os.WriteFile(out, []byte(serialized+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %q: %w", out, err)
		}
		fmt.Printf("Exported to %s\n", out)
		return nil
	})

	return cmd
}

func newImportCommand() *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the full dataset from a JSON export",
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "input file")
	cmd.MarkFlagRequired("in")

	cmd.RunE = runWithStore(func(ctx context.Context, s *store.GuildWarStore) error {
		raw, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("reading %q: %w", in, err)
		}

		if err := s.Import(ctx, string(raw)); err != nil {
			return err
		}

		fmt.Printf("Imported %d records from %s\n", len(s.Snapshot().Attacks), in)
		return nil
	})

	return cmd
}
