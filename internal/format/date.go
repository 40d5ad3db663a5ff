package format

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DisplayLayout is the "DD Mon YYYY" form used everywhere dates are shown.
const DisplayLayout = "02 Jan 2006"

// serialEpochOffset is the number of days between the spreadsheet epoch
// (30 Dec 1899) and the Unix epoch.
const serialEpochOffset = 25569

var location *time.Location

func init() {
	loc, err := time.LoadLocation("Asia/Karachi")
	if err != nil {
		loc = time.FixedZone("PKT", 5*60*60)
	}
	location = loc
}

// SetLocation changes the zone used to interpret and display dates.
func SetLocation(loc *time.Location) {
	if loc != nil {
		location = loc
	}
}

// Location returns the zone used to interpret and display dates.
func Location() *time.Location {
	return location
}

var isoLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var looseLayouts = []string{
	DisplayLayout,
	"2 Jan 2006",
	"02 January 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Mon Jan 02 2006",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	time.RFC1123,
	time.RFC1123Z,
	time.ANSIC,
}

// ParseDate interprets the loosely typed date values found in spreadsheet rows:
// "DD/MM/YYYY", ISO "YYYY-MM-DD" (optionally with a time), spreadsheet serial
// day counts given as numbers or numeric strings, and a handful of common
// textual layouts including DisplayLayout itself.
func ParseDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case string:
		return parseDateString(val)
	case float64:
		return fromSerial(val)
	case float32:
		return fromSerial(float64(val))
	case int:
		return fromSerial(float64(val))
	case int64:
		return fromSerial(float64(val))
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromSerial(f)
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.In(location), true
	}
	return time.Time{}, false
}

// Date formats v in DisplayLayout. Empty input yields "-"; input that cannot
// be parsed is returned unchanged.
func Date(v any) string {
	if isEmptyDate(v) {
		return "-"
	}
	t, ok := ParseDate(v)
	if !ok {
		return rawString(v)
	}
	return t.Format(DisplayLayout)
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	switch {
	case strings.Contains(s, "/"):
		return parseDayMonthYear(s)
	case strings.Contains(s, "-") && startsWithDigit(s):
		for _, layout := range isoLayouts {
			if t, err := time.ParseInLocation(layout, s, location); err == nil {
				return t.In(location), true
			}
		}
		return time.Time{}, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(f)
	}

	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}
	for _, layout := range looseLayouts {
		if t, err := time.ParseInLocation(layout, s, location); err == nil {
			return t.In(location), true
		}
	}
	return time.Time{}, false
}

// parseDayMonthYear handles "DD/MM/YYYY". Out-of-range parts are rejected
// rather than rolled over into the next month.
func parseDayMonthYear(s string) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 || year > 9999 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, location)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func fromSerial(days float64) (time.Time, bool) {
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return time.Time{}, false
	}
	// Keep the result inside four-digit years.
	if days < -693000 || days > 2958465 {
		return time.Time{}, false
	}
	whole := math.Floor(days)
	base := time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(whole)-serialEpochOffset)
	frac := time.Duration((days - whole) * float64(24*time.Hour))
	t := base.Add(frac)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, location), true
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func isEmptyDate(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case float64:
		return val == 0
	case int:
		return val == 0
	case int64:
		return val == 0
	}
	return false
}

func rawString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case time.Time:
		return val.String()
	}
	return ""
}
