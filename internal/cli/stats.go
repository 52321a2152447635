package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"guild_war_stats/internal/app"
	"guild_war_stats/internal/processing"
	"guild_war_stats/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newStatsCommand() *cobra.Command {
	var refDate string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show weekly statistics and the week-over-week comparison",
	}
	cmd.Flags().StringVar(&refDate, "date", "", "reference date YYYY-MM-DD (default today)")

	cmd.RunE = runWithStore(func(ctx context.Context, s *store.GuildWarStore) error {
		ref := time.Now()
		if refDate != "" {
			parsed, err := processing.ParseDate(refDate)
			if err != nil {
				return err
			}
			ref = parsed
		}

		records := s.Snapshot().Attacks
		stats := processing.NewStatsService(processing.ISOWeek)
		comparator := processing.NewComparisonService(stats)

		current, err := comparator.CurrentWeekStats(records, ref)
		if err != nil {
			return err
		}
		previous, err := comparator.PreviousWeekStats(records, ref)
		if err != nil {
			return err
		}
		comparison := comparator.CalculateComparison(current, previous)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Week %s .. %s\n\n", current.WeekStart, current.WeekEnd)

		daily := table.NewWriter()
		daily.SetOutputMirror(out)
		daily.AppendHeader(table.Row{"Date", "Attacks", "Wins", "Losses", "Draws", "Points", "Win rate", "Players"})
		for _, d := range current.DailyStats {
			daily.AppendRow(table.Row{
				d.Date, d.TotalAttacks, d.TotalWins, d.TotalLosses,
				d.TotalDraws, d.TotalPoints, fmt.Sprintf("%.2f%%", d.WinRate), d.PlayerCount,
			})
		}
		daily.AppendFooter(table.Row{
			"Total", current.TotalAttacks, current.TotalWins, current.TotalLosses,
			current.TotalDraws, current.TotalPoints, fmt.Sprintf("%.2f%%", current.WinRate), "",
		})
		daily.Render()

		if len(current.PlayerStats) > 0 {
			fmt.Fprintln(out)
			players := table.NewWriter()
			players.SetOutputMirror(out)
			players.AppendHeader(table.Row{"Player", "Attacks", "Wins", "Losses", "Points", "Win rate"})
			for _, p := range current.PlayerStats {
				players.AppendRow(table.Row{
					p.PlayerName, p.TotalAttacks, p.TotalWins, p.TotalLosses,
					p.TotalPoints, fmt.Sprintf("%.2f%%", p.WinRate),
				})
			}
			players.Render()
		}

		fmt.Fprintln(out)
		printComparison(out, comparison)
		return nil
	})

	return cmd
}

func printComparison(out io.Writer, comparison *app.ComparisonData) {
	if comparison.PreviousWeek == nil {
		fmt.Fprintln(out, "No records in the previous week; nothing to compare against.")
		return
	}

	fmt.Fprintf(out, "Versus week %s .. %s:\n",
		comparison.PreviousWeek.WeekStart, comparison.PreviousWeek.WeekEnd)
	fmt.Fprintf(out, "  win rate %+.2f%%\n", comparison.Improvement.WinRateChange)
	fmt.Fprintf(out, "  attacks  %+d\n", comparison.Improvement.TotalAttacksChange)
	fmt.Fprintf(out, "  wins     %+d\n", comparison.Improvement.TotalWinsChange)
}
