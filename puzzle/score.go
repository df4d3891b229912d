package puzzle

/*

Scoring

*/

// scoreCeiling is the score for an instant (zero-second) solve.
const scoreCeiling = 10000

// Score maps elapsed play time to a score: scoreCeiling divided by
// (elapsedSeconds + 1), truncated.  Faster completions score
// higher; the result is monotonically non-increasing in elapsed
// time and always within [0, scoreCeiling].  Negative elapsed times
// (a clock stepped backwards) are treated as zero.
func Score(elapsedSeconds int) int {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	return scoreCeiling / (elapsedSeconds + 1)
}
