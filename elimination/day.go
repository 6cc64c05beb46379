package elimination

import "time"

// DayLength is the unit of judgment.
const DayLength = 24 * time.Hour

// ResolveDay returns the index of the last fully elapsed day since start:
// floor((now - start) / 24h). A run shortly after midnight of day N+1 judges day N.
// Values below 1 mean the first day has not finished yet.
func ResolveDay(start, now time.Time) int {
	elapsed := now.Sub(start)
	day := int(elapsed / DayLength)
	if elapsed < 0 && elapsed%DayLength != 0 {
		day--
	}
	return day
}

// Judgeable reports whether day refers to a completed tournament day.
func Judgeable(day int) bool {
	return day >= 1
}
