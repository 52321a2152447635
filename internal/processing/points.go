package processing

// Point weights for battle outcomes
const (
	PointsPerWin  = 5
	PointsPerLoss = 2
	PointsPerDraw = 3
)

// CalculatePoints computes the weighted score for a set of battle outcomes
func CalculatePoints(wins, losses, draws int) int {
	return PointsPerWin*wins + PointsPerLoss*losses + PointsPerDraw*draws
}

// CalculateDraws derives draws from the attack total. Over-counted input
// (wins+losses exceeding attacks) clamps to zero rather than failing, which
// keeps entry forgiving at the cost of masking the inconsistency.
func CalculateDraws(attacks, wins, losses int) int {
	draws := attacks - wins - losses
	if draws < 0 {
		return 0
	}
	return draws
}

// ValidateBattleRecord reports whether the outcome counts add up to the
// attack total. When draws is negative it is treated as unset and derived
// with CalculateDraws.
func ValidateBattleRecord(attacks, wins, losses, draws int) bool {
	if draws < 0 {
		draws = CalculateDraws(attacks, wins, losses)
	}
	return wins+losses+draws == attacks
}
