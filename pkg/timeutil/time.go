// Package timeutil formats the date ranges sent to the reports endpoint.
package timeutil

import "time"

// ReportLayout is the timestamp layout used for datetime_from and datetime_to
const ReportLayout = time.RFC3339

// DateLayout is the calendar date layout accepted by DayRange
const DateLayout = "2006-01-02"

// StartOfDay returns midnight UTC of t's UTC date
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last second of t's UTC date
func EndOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 23, 59, 59, 0, time.UTC)
}

// FormatReportTime renders t in UTC using ReportLayout
func FormatReportTime(t time.Time) string {
	return t.UTC().Format(ReportLayout)
}

// DayRange turns a YYYY-MM-DD date into report bounds covering that whole UTC day
func DayRange(date string) (from, to string, err error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", "", err
	}
	return FormatReportTime(StartOfDay(day)), FormatReportTime(EndOfDay(day)), nil
}
