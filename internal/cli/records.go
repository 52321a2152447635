package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"guild_war_stats/internal/processing"
	"guild_war_stats/internal/store"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newAddCommand() *cobra.Command {
	var (
		player  string
		date    string
		attacks int
		wins    int
		losses  int
		draws   int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a player's battle day",
	}
	cmd.Flags().StringVarP(&player, "player", "p", "", "player name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "battle date YYYY-MM-DD (default today)")
	cmd.Flags().IntVarP(&attacks, "attacks", "a", 5, "total attack attempts")
	cmd.Flags().IntVarP(&wins, "wins", "w", 0, "wins")
	cmd.Flags().IntVarP(&losses, "losses", "l", 0, "losses")
	cmd.Flags().IntVar(&draws, "draws", 0, "draws (derived from attacks when omitted)")
	cmd.MarkFlagRequired("player")

	cmd.RunE = runWithStore(func(ctx context.Context, s *store.GuildWarStore) error {
		if date == "" {
			date = processing.FormatDate(time.Now())
		}
		if _, err := processing.ParseDate(date); err != nil {
			return err
		}

		input := store.NewAttack{
			PlayerName: player,
			Date:       date,
			Attacks:    attacks,
			Wins:       wins,
			Losses:     losses,
		}
		if cmd.Flags().Changed("draws") {
			input.Draws = &draws
		}

		record, err := s.AddAttack(ctx, input)
		if err != nil {
			return err
		}

		fmt.Printf("Added record %s for %s on %s (%d points)\n",
			record.ID, record.PlayerName, record.Date, record.Points)
		return nil
	})

	return cmd
}

func newUpdateCommand() *cobra.Command {
	var (
		player  string
		date    string
		attacks int
		wins    int
		losses  int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing record (draws and points are rederived)",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVarP(&player, "player", "p", "", "player name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "battle date YYYY-MM-DD")
	cmd.Flags().IntVarP(&attacks, "attacks", "a", 0, "total attack attempts")
	cmd.Flags().IntVarP(&wins, "wins", "w", 0, "wins")
	cmd.Flags().IntVarP(&losses, "losses", "l", 0, "losses")

	cmd.RunE = runWithStore(func(ctx context.Context, s *store.GuildWarStore) error {
		var patch store.AttackPatch
		if cmd.Flags().Changed("player") {
			patch.PlayerName = &player
		}
		if cmd.Flags().Changed("date") {
			if _, err := processing.ParseDate(date); err != nil {
				return err
			}
			patch.Date = &date
		}
		if cmd.Flags().Changed("attacks") {
			patch.Attacks = &attacks
		}
		if cmd.Flags().Changed("wins") {
			patch.Wins = &wins
		}
		if cmd.Flags().Changed("losses") {
			patch.Losses = &losses
		}

		record, err := s.UpdateAttack(ctx, cmd.Flags().Arg(0), patch)
		if err != nil {
			return err
		}

		fmt.Printf("Updated record %s (%d points)\n", record.ID, record.Points)
		return nil
	})

	return cmd
}

func newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = runWithStore(func(ctx context.Context, s *store.GuildWarStore) error {
		id := cmd.Flags().Arg(0)
		if err := s.DeleteAttack(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted record %s\n", id)
		return nil
	})

	return cmd
}

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all attack records",
	}

	cmd.RunE = runWithStore(func(ctx context.Context, s *store.GuildWarStore) error {
		snapshot := s.Snapshot()

		records := snapshot.Attacks
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].Date != records[j].Date {
				return records[i].Date < records[j].Date
			}
			return records[i].PlayerName < records[j].PlayerName
		})

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"ID", "Player", "Date", "Attacks", "Wins", "Losses", "Draws", "Points"})
		for _, r := range records {
			t.AppendRow(table.Row{r.ID, r.PlayerName, r.Date, r.Attacks, r.Wins, r.Losses, r.Draws, r.Points})
		}
		t.Render()

		if snapshot.LastUpdated != "" {
			if ts, err := time.Parse(time.RFC3339, snapshot.LastUpdated); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%d records, last updated %s\n",
					len(records), humanize.Time(ts))
			}
		}
		return nil
	})

	return cmd
}

func newClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record and reset statistics",
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")

	cmd.RunE = runWithStore(func(ctx context.Context, s *store.GuildWarStore) error {
		if !yes {
			return fmt.Errorf("refusing to clear all data without --yes")
		}
		if err := s.ClearAll(ctx); err != nil {
			return err
		}
		fmt.Println("All guild war data cleared")
		return nil
	})

	return cmd
}
