package processing

import (
	"testing"

	"guild_war_stats/internal/app"
)

func testRecord(id, player, date string, attacks, wins, losses int) app.AttackRecord {
	draws := CalculateDraws(attacks, wins, losses)
	return app.AttackRecord{
		ID:         id,
		PlayerName: player,
		Date:       date,
		Attacks:    attacks,
		Wins:       wins,
		Losses:     losses,
		Draws:      draws,
		Points:     CalculatePoints(wins, losses, draws),
	}
}

func TestCalculateDailyStats(t *testing.T) {
	service := NewStatsService(ISOWeek)

	t.Run("SinglePerfectDay", func(t *testing.T) {
		records := []app.AttackRecord{
			testRecord("r1", "Aria", "2024-01-01", 5, 5, 0),
		}

		stats := service.CalculateDailyStats(records, "2024-01-01")

		if stats.TotalAttacks != 5 {
			t.Errorf("Expected TotalAttacks 5, got %d", stats.TotalAttacks)
		}
		if stats.TotalWins != 5 {
			t.Errorf("Expected TotalWins 5, got %d", stats.TotalWins)
		}
		if stats.TotalLosses != 0 {
			t.Errorf("Expected TotalLosses 0, got %d", stats.TotalLosses)
		}
		if stats.WinRate != 100 {
			t.Errorf("Expected WinRate 100, got %v", stats.WinRate)
		}
		if stats.PlayerCount != 1 {
			t.Errorf("Expected PlayerCount 1, got %d", stats.PlayerCount)
		}
	})

	t.Run("IgnoresOtherDates", func(t *testing.T) {
		records := []app.AttackRecord{
			testRecord("r1", "Aria", "2024-01-01", 5, 3, 2),
			testRecord("r2", "Bo", "2024-01-02", 5, 2, 3),
		}

		stats := service.CalculateDailyStats(records, "2024-01-01")

		if stats.TotalAttacks != 5 {
			t.Errorf("Expected TotalAttacks 5, got %d", stats.TotalAttacks)
		}
		if stats.PlayerCount != 1 {
			t.Errorf("Expected PlayerCount 1, got %d", stats.PlayerCount)
		}
	})

	t.Run("SubtractionLossesDistinctFromRecorded", func(t *testing.T) {
		// 5 attacks, 2 wins, 1 loss, 2 draws: the subtraction convention
		// reports 3 losses while the entered field says 1
		records := []app.AttackRecord{
			testRecord("r1", "Aria", "2024-01-01", 5, 2, 1),
		}

		stats := service.CalculateDailyStats(records, "2024-01-01")

		if stats.TotalLosses != 3 {
			t.Errorf("Expected subtraction-derived TotalLosses 3, got %d", stats.TotalLosses)
		}
		if stats.RecordedLosses != 1 {
			t.Errorf("Expected RecordedLosses 1, got %d", stats.RecordedLosses)
		}
		if stats.TotalDraws != 2 {
			t.Errorf("Expected TotalDraws 2, got %d", stats.TotalDraws)
		}
	})

	t.Run("EmptyDateHasZeroWinRate", func(t *testing.T) {
		stats := service.CalculateDailyStats(nil, "2024-01-01")

		if stats.WinRate != 0 {
			t.Errorf("Expected WinRate 0 for empty date, got %v", stats.WinRate)
		}
		if stats.PlayerCount != 0 {
			t.Errorf("Expected PlayerCount 0, got %d", stats.PlayerCount)
		}
	})

	t.Run("WinRateRoundedToTwoDecimals", func(t *testing.T) {
		// 1 win out of 3 attacks = 33.333...%
		records := []app.AttackRecord{
			testRecord("r1", "Aria", "2024-01-01", 3, 1, 2),
		}

		stats := service.CalculateDailyStats(records, "2024-01-01")

		if stats.WinRate != 33.33 {
			t.Errorf("Expected WinRate 33.33, got %v", stats.WinRate)
		}
	})
}

func TestCalculateWeeklyStats(t *testing.T) {
	service := NewStatsService(ISOWeek)

	t.Run("AlwaysSevenDailyEntriesAscending", func(t *testing.T) {
		stats, err := service.CalculateWeeklyStats(nil, "2024-01-01")
		if err != nil {
			t.Fatalf("CalculateWeeklyStats returned error: %v", err)
		}

		if len(stats.DailyStats) != 7 {
			t.Fatalf("Expected 7 daily entries, got %d", len(stats.DailyStats))
		}
		for i, daily := range stats.DailyStats {
			expected, _ := AddDays("2024-01-01", i)
			if daily.Date != expected {
				t.Errorf("DailyStats[%d].Date = %q, expected %q", i, daily.Date, expected)
			}
		}
		if stats.WeekEnd != "2024-01-07" {
			t.Errorf("Expected WeekEnd 2024-01-07, got %q", stats.WeekEnd)
		}
	})

	t.Run("TotalsEqualSumOfDailies", func(t *testing.T) {
		records := []app.AttackRecord{
			testRecord("r1", "Aria", "2024-01-01", 5, 3, 2),
			testRecord("r2", "Bo", "2024-01-03", 5, 4, 1),
			testRecord("r3", "Aria", "2024-01-07", 5, 2, 2),
			testRecord("r4", "Cleo", "2024-01-08", 5, 5, 0), // next week, excluded
		}

		stats, err := service.CalculateWeeklyStats(records, "2024-01-01")
		if err != nil {
			t.Fatalf("CalculateWeeklyStats returned error: %v", err)
		}

		sumAttacks := 0
		sumWins := 0
		for _, daily := range stats.DailyStats {
			sumAttacks += daily.TotalAttacks
			sumWins += daily.TotalWins
		}
		if stats.TotalAttacks != sumAttacks {
			t.Errorf("TotalAttacks %d != sum of dailies %d", stats.TotalAttacks, sumAttacks)
		}
		if stats.TotalWins != sumWins {
			t.Errorf("TotalWins %d != sum of dailies %d", stats.TotalWins, sumWins)
		}
		if stats.TotalAttacks != 15 {
			t.Errorf("Expected TotalAttacks 15 (next week excluded), got %d", stats.TotalAttacks)
		}
	})

	t.Run("PlayerRollupsCarryConstituentRecords", func(t *testing.T) {
		records := []app.AttackRecord{
			testRecord("r1", "Aria", "2024-01-01", 5, 3, 2),
			testRecord("r2", "Aria", "2024-01-02", 5, 4, 1),
			testRecord("r3", "Bo", "2024-01-02", 5, 1, 4),
		}

		stats, err := service.CalculateWeeklyStats(records, "2024-01-01")
		if err != nil {
			t.Fatalf("CalculateWeeklyStats returned error: %v", err)
		}

		if len(stats.PlayerStats) != 2 {
			t.Fatalf("Expected 2 player rollups, got %d", len(stats.PlayerStats))
		}

		var aria *app.PlayerWeeklyStats
		for i := range stats.PlayerStats {
			if stats.PlayerStats[i].PlayerName == "Aria" {
				aria = &stats.PlayerStats[i]
			}
		}
		if aria == nil {
			t.Fatal("Expected a rollup for Aria")
		}
		if aria.TotalAttacks != 10 || aria.TotalWins != 7 {
			t.Errorf("Aria rollup = %d attacks / %d wins, expected 10/7", aria.TotalAttacks, aria.TotalWins)
		}
		if len(aria.Attacks) != 2 {
			t.Errorf("Expected Aria to carry 2 constituent records, got %d", len(aria.Attacks))
		}
		if aria.WinRate != 70 {
			t.Errorf("Expected Aria WinRate 70, got %v", aria.WinRate)
		}
	})

	t.Run("NoGhostRowsForAbsentPlayers", func(t *testing.T) {
		records := []app.AttackRecord{
			testRecord("r1", "Aria", "2024-01-01", 5, 3, 2),
			testRecord("r2", "Bo", "2024-01-02", 5, 1, 4),
		}

		// Delete Bo's only record and recompute
		remaining := records[:1]
		stats, err := service.CalculateWeeklyStats(remaining, "2024-01-01")
		if err != nil {
			t.Fatalf("CalculateWeeklyStats returned error: %v", err)
		}

		for _, player := range stats.PlayerStats {
			if player.PlayerName == "Bo" {
				t.Error("Expected no rollup for Bo after deleting the only record")
			}
		}
		if len(stats.PlayerStats) != 1 {
			t.Errorf("Expected 1 player rollup, got %d", len(stats.PlayerStats))
		}
	})

	t.Run("PlayersSortedByPoints", func(t *testing.T) {
		records := []app.AttackRecord{
			testRecord("r1", "Aria", "2024-01-01", 5, 1, 4),
			testRecord("r2", "Bo", "2024-01-01", 5, 5, 0),
		}

		stats, err := service.CalculateWeeklyStats(records, "2024-01-01")
		if err != nil {
			t.Fatalf("CalculateWeeklyStats returned error: %v", err)
		}

		if stats.PlayerStats[0].PlayerName != "Bo" {
			t.Errorf("Expected Bo first (most points), got %q", stats.PlayerStats[0].PlayerName)
		}
	})

	t.Run("InvalidWeekStart", func(t *testing.T) {
		if _, err := service.CalculateWeeklyStats(nil, "garbage"); err == nil {
			t.Error("Expected an error for an invalid week start")
		}
	})
}
