package processing

import (
	"math"
	"time"

	"guild_war_stats/internal/app"

	"github.com/rs/zerolog/log"
)

// ComparisonService computes week-over-week statistics. The reference time
// is always an explicit parameter so results are deterministic under test.
type ComparisonService struct {
	stats *StatsService
}

// NewComparisonService creates a new comparison service
func NewComparisonService(stats *StatsService) *ComparisonService {
	return &ComparisonService{
		stats: stats,
	}
}

// CurrentWeekStats aggregates the week containing the reference time
func (cs *ComparisonService) CurrentWeekStats(records []app.AttackRecord, now time.Time) (*app.WeeklyStats, error) {
	weekStart, err := cs.stats.convention.WeekStart(FormatDate(now))
	if err != nil {
		return nil, err
	}
	return cs.stats.CalculateWeeklyStats(records, weekStart)
}

// PreviousWeekStats aggregates the week immediately before the one
// containing the reference time. It returns nil when no records fall inside
// that week's range, keeping "no data" distinct from an all-zero week.
func (cs *ComparisonService) PreviousWeekStats(records []app.AttackRecord, now time.Time) (*app.WeeklyStats, error) {
	currentStart, err := cs.stats.convention.WeekStart(FormatDate(now))
	if err != nil {
		return nil, err
	}
	previousStart, err := AddDays(currentStart, -7)
	if err != nil {
		return nil, err
	}
	previousEnd, err := AddDays(previousStart, 6)
	if err != nil {
		return nil, err
	}

	hasRecords := false
	for _, record := range records {
		if record.Date >= previousStart && record.Date <= previousEnd {
			hasRecords = true
			break
		}
	}
	if !hasRecords {
		log.Debug().
			Str("week_start", previousStart).
			Msg("No records in previous week")
		return nil, nil
	}

	return cs.stats.CalculateWeeklyStats(records, previousStart)
}

// CalculateComparison computes signed deltas between two weeks. A nil
// previous week yields zero deltas.
func (cs *ComparisonService) CalculateComparison(current *app.WeeklyStats, previous *app.WeeklyStats) *app.ComparisonData {
	comparison := &app.ComparisonData{
		CurrentWeek:  *current,
		PreviousWeek: previous,
	}

	if previous == nil {
		return comparison
	}

	comparison.Improvement = app.Improvement{
		WinRateChange:      math.Round((current.WinRate-previous.WinRate)*100) / 100,
		TotalAttacksChange: current.TotalAttacks - previous.TotalAttacks,
		TotalWinsChange:    current.TotalWins - previous.TotalWins,
	}

	return comparison
}
