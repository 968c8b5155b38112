package app

import "time"

// evaluations are aligned to whole minutes
func nextMinuteDelay() time.Duration {
	return time.Until(time.Now().Truncate(time.Minute).Add(time.Minute))
}

func nextQuarterDelay() time.Duration {
	now := time.Now()
	// Calculate the next quarter-hour mark (0, 15, 30, 45)
	nextQuarter := time.Date(
		now.Year(),
		now.Month(),
		now.Day(),
		now.Hour(),
		(now.Minute()/15+1)*15,
		0,
		0,
		now.Location(),
	)
	return time.Until(nextQuarter)
}
