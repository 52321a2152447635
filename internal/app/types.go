package app

// AttackRecord represents one battle-day submission for a single player
type AttackRecord struct {
	ID         string `json:"id"`
	PlayerName string `json:"playerName"`
	Date       string `json:"date"` // YYYY-MM-DD, no time component
	Attacks    int    `json:"attacks"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Draws      int    `json:"draws"`
	Points     int    `json:"points"`
}

// GuildWarData is the persisted envelope holding the full attack list.
// Field names are part of the export/import format and must not change.
type GuildWarData struct {
	Attacks     []AttackRecord `json:"attacks"`
	LastUpdated string         `json:"lastUpdated"`
}

// DailyStats represents aggregated statistics for a single date.
// TotalLosses is derived by subtraction (attacks - wins), matching the
// historical convention; RecordedLosses sums the losses field as entered.
type DailyStats struct {
	Date           string  `json:"date"`
	TotalAttacks   int     `json:"totalAttacks"`
	TotalWins      int     `json:"totalWins"`
	TotalLosses    int     `json:"totalLosses"`
	RecordedLosses int     `json:"recordedLosses"`
	TotalDraws     int     `json:"totalDraws"`
	TotalPoints    int     `json:"totalPoints"`
	WinRate        float64 `json:"winRate"` // percentage, 2 decimal places
	PlayerCount    int     `json:"playerCount"`
}

// PlayerWeeklyStats represents one player's rollup for a single week
type PlayerWeeklyStats struct {
	PlayerName     string         `json:"playerName"`
	TotalAttacks   int            `json:"totalAttacks"`
	TotalWins      int            `json:"totalWins"`
	TotalLosses    int            `json:"totalLosses"`
	RecordedLosses int            `json:"recordedLosses"`
	TotalPoints    int            `json:"totalPoints"`
	WinRate        float64        `json:"winRate"`
	Attacks        []AttackRecord `json:"attacks"`
}

// WeeklyStats represents aggregated statistics for one 7-day week
type WeeklyStats struct {
	WeekStart      string              `json:"weekStart"`
	WeekEnd        string              `json:"weekEnd"` // inclusive
	TotalAttacks   int                 `json:"totalAttacks"`
	TotalWins      int                 `json:"totalWins"`
	TotalLosses    int                 `json:"totalLosses"`
	RecordedLosses int                 `json:"recordedLosses"`
	TotalDraws     int                 `json:"totalDraws"`
	TotalPoints    int                 `json:"totalPoints"`
	WinRate        float64             `json:"winRate"`
	DailyStats     []DailyStats        `json:"dailyStats"` // always 7 entries, ascending by date
	PlayerStats    []PlayerWeeklyStats `json:"playerStats"`
}

// Improvement holds week-over-week signed deltas
type Improvement struct {
	WinRateChange      float64 `json:"winRateChange"`
	TotalAttacksChange int     `json:"totalAttacksChange"`
	TotalWinsChange    int     `json:"totalWinsChange"`
}

// ComparisonData pairs the current week with the previous one.
// PreviousWeek is nil when no records fall inside the prior week; an
// all-zero week that has records stays distinct from an absent one.
type ComparisonData struct {
	CurrentWeek  WeeklyStats  `json:"currentWeek"`
	PreviousWeek *WeeklyStats `json:"previousWeek"`
	Improvement  Improvement  `json:"improvement"`
}
