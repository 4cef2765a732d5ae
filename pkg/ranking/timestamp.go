package ranking

import "time"

// TimestampLayout is the first-column format of every collected row.
const TimestampLayout = "2006/01/02 15:04"

// Timestamp formats t in loc, floored to the hour. Rows collected within the
// same hour therefore share a timestamp regardless of the trigger's minute
// offset.
func Timestamp(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	floored := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
	return floored.Format(TimestampLayout)
}
