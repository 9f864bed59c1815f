// Package timeseries normalizes {time, value} points before they reach the
// charting widget, which requires day-granularity or numeric time points.
package timeseries

import (
	"encoding/json"
	"fmt"
	"regexp"
)

var yearMonthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// TimeValue is either a numeric epoch timestamp or an ISO-like date string
// (day-level "YYYY-MM-DD" or year-month "YYYY-MM").
type TimeValue struct {
	Epoch    int64
	Date     string
	IsNumber bool
}

// NewEpoch returns a numeric time value.
func NewEpoch(epoch int64) TimeValue {
	return TimeValue{Epoch: epoch, IsNumber: true}
}

// NewDate returns a string time value.
func NewDate(date string) TimeValue {
	return TimeValue{Date: date}
}

func (t TimeValue) MarshalJSON() ([]byte, error) {
	if t.IsNumber {
		return json.Marshal(t.Epoch)
	}
	return json.Marshal(t.Date)
}

func (t *TimeValue) UnmarshalJSON(data []byte) error {
	// float64 so fractional epochs decode too; sub-second precision is
	// dropped
	var epoch float64
	if err := json.Unmarshal(data, &epoch); err == nil {
		*t = NewEpoch(int64(epoch))
		return nil
	}
	var date string
	if err := json.Unmarshal(data, &date); err == nil {
		*t = NewDate(date)
		return nil
	}
	return fmt.Errorf("time must be a number or a date string, got %s", data)
}

// Point is one sample handed to the chart.
type Point struct {
	Time  TimeValue `json:"time"`
	Value float64   `json:"value"`
}

// NormalizePoint maps a year-month string time ("YYYY-MM") to the canonical
// first-of-month day ("YYYY-MM-01"). Numeric and day-level times pass
// through unchanged.
func NormalizePoint(p Point) Point {
	if !p.Time.IsNumber && yearMonthRe.MatchString(p.Time.Date) {
		p.Time = NewDate(p.Time.Date + "-01")
	}
	return p
}

// Normalize normalizes every point, preserving order. The input is expected
// to be sorted by the caller; no sorting happens here.
func Normalize(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = NormalizePoint(p)
	}
	return out
}
