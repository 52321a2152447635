package processing

import (
	"fmt"
	"math"
	"sort"

	"guild_war_stats/internal/app"

	"github.com/rs/zerolog/log"
)

// StatsService handles daily and weekly statistics aggregation over a set of
// attack records. All methods are pure with respect to their inputs.
type StatsService struct {
	convention WeekConvention
}

// NewStatsService creates a new stats service using the given week convention
func NewStatsService(convention WeekConvention) *StatsService {
	return &StatsService{
		convention: convention,
	}
}

// CalculateDailyStats aggregates all records matching the given date.
// TotalLosses follows the subtraction convention (attacks - wins);
// RecordedLosses carries the sum of the entered losses fields.
func (ss *StatsService) CalculateDailyStats(records []app.AttackRecord, date string) app.DailyStats {
	stats := app.DailyStats{
		Date: date,
	}

	players := make(map[string]struct{})
	for _, record := range records {
		if record.Date != date {
			continue
		}
		stats.TotalAttacks += record.Attacks
		stats.TotalWins += record.Wins
		stats.RecordedLosses += record.Losses
		stats.TotalDraws += record.Draws
		stats.TotalPoints += record.Points
		players[record.PlayerName] = struct{}{}
	}

	stats.TotalLosses = stats.TotalAttacks - stats.TotalWins
	stats.WinRate = winRate(stats.TotalWins, stats.TotalAttacks)
	stats.PlayerCount = len(players)

	return stats
}

// CalculateWeeklyStats aggregates all records inside the week starting at
// weekStart. The result always holds exactly 7 daily entries in ascending
// date order, including zero-activity days.
func (ss *StatsService) CalculateWeeklyStats(records []app.AttackRecord, weekStart string) (*app.WeeklyStats, error) {
	weekEnd, err := AddDays(weekStart, 6)
	if err != nil {
		return nil, fmt.Errorf("computing week end: %w", err)
	}

	// Lexicographic comparison is date-order-correct for YYYY-MM-DD
	var weekRecords []app.AttackRecord
	for _, record := range records {
		if record.Date >= weekStart && record.Date <= weekEnd {
			weekRecords = append(weekRecords, record)
		}
	}

	stats := &app.WeeklyStats{
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
		DailyStats: make([]app.DailyStats, 0, 7),
	}

	for i := 0; i < 7; i++ {
		day, err := AddDays(weekStart, i)
		if err != nil {
			return nil, fmt.Errorf("computing day %d of week: %w", i, err)
		}
		daily := ss.CalculateDailyStats(weekRecords, day)
		stats.DailyStats = append(stats.DailyStats, daily)

		stats.TotalAttacks += daily.TotalAttacks
		stats.TotalWins += daily.TotalWins
		stats.RecordedLosses += daily.RecordedLosses
		stats.TotalDraws += daily.TotalDraws
		stats.TotalPoints += daily.TotalPoints
	}

	stats.TotalLosses = stats.TotalAttacks - stats.TotalWins
	stats.WinRate = winRate(stats.TotalWins, stats.TotalAttacks)
	stats.PlayerStats = ss.calculatePlayerStats(weekRecords)

	log.Debug().
		Str("week_start", weekStart).
		Str("week_end", weekEnd).
		Int("records", len(weekRecords)).
		Int("total_attacks", stats.TotalAttacks).
		Int("players", len(stats.PlayerStats)).
		Msg("Calculated weekly stats")

	return stats, nil
}

// calculatePlayerStats builds the per-player rollup for one week's records.
// Players with no records in the week do not appear at all.
func (ss *StatsService) calculatePlayerStats(weekRecords []app.AttackRecord) []app.PlayerWeeklyStats {
	byPlayer := make(map[string]*app.PlayerWeeklyStats)

	for _, record := range weekRecords {
		player, exists := byPlayer[record.PlayerName]
		if !exists {
			player = &app.PlayerWeeklyStats{
				PlayerName: record.PlayerName,
			}
			byPlayer[record.PlayerName] = player
		}
		player.TotalAttacks += record.Attacks
		player.TotalWins += record.Wins
		player.RecordedLosses += record.Losses
		player.TotalPoints += record.Points
		player.Attacks = append(player.Attacks, record)
	}

	players := make([]app.PlayerWeeklyStats, 0, len(byPlayer))
	for _, player := range byPlayer {
		player.TotalLosses = player.TotalAttacks - player.TotalWins
		player.WinRate = winRate(player.TotalWins, player.TotalAttacks)
		players = append(players, *player)
	}

	// Map iteration order is random; present strongest first
	sort.Slice(players, func(i, j int) bool {
		if players[i].TotalPoints != players[j].TotalPoints {
			return players[i].TotalPoints > players[j].TotalPoints
		}
		return players[i].PlayerName < players[j].PlayerName
	})

	return players
}

// winRate returns wins/attacks as a percentage rounded to 2 decimal places,
// or 0 when there were no attacks.
func winRate(wins, attacks int) float64 {
	if attacks == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(attacks)*10000) / 100
}
