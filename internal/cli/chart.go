package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"guild_war_stats/internal/processing"
	"guild_war_stats/internal/store"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"
)

type warWeekBucket struct {
	week    int
	attacks int
	wins    int
	points  int
}

func newChartCommand() *cobra.Command {
	var (
		out  string
		year int
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a war-week win rate chart to an HTML file",
		Long: `Render a win rate and points chart bucketed by war week.

War weeks run Friday to Thursday; week 1 starts on the first Friday of the
year. This is the charting convention only - weekly statistics elsewhere use
Monday-start weeks.`,
	}
	cmd.Flags().StringVarP(&out, "out", "o", "war_weeks.html", "output HTML file")
	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "year to chart")

	cmd.RunE = runWithStore(func(ctx context.Context, s *store.GuildWarStore) error {
		buckets := make(map[int]*warWeekBucket)
		prefix := strconv.Itoa(year) + "-"

		for _, record := range s.Snapshot().Attacks {
			if !strings.HasPrefix(record.Date, prefix) {
				continue
			}
			week, err := processing.WarWeekNumber(record.Date)
			if err != nil {
				return err
			}
			bucket, exists := buckets[week]
			if !exists {
				bucket = &warWeekBucket{week: week}
				buckets[week] = bucket
			}
			bucket.attacks += record.Attacks
			bucket.wins += record.Wins
			bucket.points += record.Points
		}

		if len(buckets) == 0 {
			return fmt.Errorf("no records found for %d", year)
		}

		ordered := make([]*warWeekBucket, 0, len(buckets))
		for _, bucket := range buckets {
			ordered = append(ordered, bucket)
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].week < ordered[j].week })

		labels := make([]string, len(ordered))
		winRates := make([]opts.LineData, len(ordered))
		points := make([]opts.LineData, len(ordered))
		for i, bucket := range ordered {
			labels[i] = fmt.Sprintf("W%d", bucket.week)
			rate := 0.0
			if bucket.attacks > 0 {
				rate = float64(bucket.wins) / float64(bucket.attacks) * 100
			}
			winRates[i] = opts.LineData{Value: rate}
			points[i] = opts.LineData{Value: bucket.points}
		}

		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title:    fmt.Sprintf("Guild war weeks %d", year),
				Subtitle: "Friday-start war weeks",
			}),
			charts.WithXAxisOpts(opts.XAxis{Name: "War week"}),
			charts.WithYAxisOpts(opts.YAxis{Name: "Win rate (%) / Points"}),
		)
		line.SetXAxis(labels)
		line.AddSeries("Win rate", winRates)
		line.AddSeries("Points", points)

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %q: %w", out, err)
		}
		defer f.Close()

		if err := line.Render(f); err != nil {
			return fmt.Errorf("rendering chart: %w", err)
		}

		fmt.Printf("Wrote %s (%d war weeks)\n", out, len(ordered))
		return nil
	})

	return cmd
}
