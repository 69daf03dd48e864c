package stats

import "time"

// MonthBucket is one month's event count in the monthly stats series.
type MonthBucket struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// monthsInSeries is the fixed length of the monthly stats window.
const monthsInSeries = 12

// MonthlyBuckets lays raw (year, month) counts onto a fixed window of 12
// consecutive months ending at now's month. Months without events appear with
// a zero count so the series always has 12 entries.
func MonthlyBuckets(now time.Time, raw map[[2]int]int) []MonthBucket {
	out := make([]MonthBucket, 0, monthsInSeries)
	// Normalize to the first of the month so AddDate arithmetic never skips
	// short months.
	cursor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(monthsInSeries - 1), 0)
	for i := 0; i < monthsInSeries; i++ {
		y, m := cursor.Year(), int(cursor.Month())
		out = append(out, MonthBucket{Year: y, Month: m, Count: raw[[2]int{y, m}]})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return out
}
