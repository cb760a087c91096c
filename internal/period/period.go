package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts used by the Format helpers. They produce text both parsers accept.
const (
	Layout24h = "01/02/2006 15:04"
	Layout12h = "01/02/2006 3:04 pm"
)

// pivotYear is the highest two-digit year placed in the 2000s.
// 00-68 map to 2000-2068, 69-99 map to 1969-1999 (strptime %y).
const pivotYear = 68

// Period is an ordered pair of date-times. Start is never after End.
type Period struct {
	Start time.Time
	End   time.Time
}

// Duration returns End minus Start.
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

func (p Period) String() string {
	return Format24h(p.Start) + " " + Format24h(p.End)
}

// Parser builds date-times in Location. The zero value uses UTC.
type Parser struct {
	Location *time.Location
}

var defaultParser Parser

// Parse12h parses two "mm/dd/yy hh:mm am|pm" expressions.
func Parse12h(text string) (Period, error) { return defaultParser.Parse12h(text) }

// Parse24h parses two "mm/dd/yy hh:mm" expressions.
func Parse24h(text string) (Period, error) { return defaultParser.Parse24h(text) }

// Parse picks the 12-hour or 24-hour parser using HasMeridiem.
func Parse(text string) (Period, error) { return defaultParser.Parse(text) }

// HasMeridiem reports whether text contains "am" or "pm" in any case.
// It is a substring check: "09/29/21 21:30 camp" counts as 12-hour input
// and will fail in the 12-hour parser.
func HasMeridiem(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "am") || strings.Contains(lower, "pm")
}

// Parse dispatches on HasMeridiem.
func (p Parser) Parse(text string) (Period, error) {
	if HasMeridiem(text) {
		return p.Parse12h(text)
	}
	return p.Parse24h(text)
}

// Parse12h parses text holding exactly six fields:
// date time meridiem date time meridiem.
func (p Parser) Parse12h(text string) (Period, error) {
	fields := strings.Fields(text)
	if len(fields) != 6 {
		return Period{}, formatError("expected 6 fields, got %d", len(fields))
	}
	start, err := p.dateTime(fields[0], fields[1], fields[2])
	if err != nil {
		return Period{}, err
	}
	end, err := p.dateTime(fields[3], fields[4], fields[5])
	if err != nil {
		return Period{}, err
	}
	return ordered(start, end)
}

// Parse24h parses text holding exactly four fields: date time date time.
func (p Parser) Parse24h(text string) (Period, error) {
	fields := strings.Fields(text)
	if len(fields) != 4 {
		return Period{}, formatError("expected 4 fields, got %d", len(fields))
	}
	start, err := p.dateTime(fields[0], fields[1], "")
	if err != nil {
		return Period{}, err
	}
	end, err := p.dateTime(fields[2], fields[3], "")
	if err != nil {
		return Period{}, err
	}
	return ordered(start, end)
}

func ordered(start, end time.Time) (Period, error) {
	if start.After(end) {
		return Period{}, &Error{
			Kind:    KindOrdering,
			Message: msgOrdering,
			Detail:  fmt.Sprintf("%s is after %s", Format24h(start), Format24h(end)),
		}
	}
	return Period{Start: start, End: end}, nil
}

// dateTime converts one expression. An empty meridiem selects 24-hour mode.
func (p Parser) dateTime(dateTok, timeTok, meridiem string) (time.Time, error) {
	month, day, year, err := splitDate(dateTok)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := splitClock(timeTok)
	if err != nil {
		return time.Time{}, err
	}

	if meridiem != "" {
		hour, err = to24Hour(hour, meridiem)
		if err != nil {
			return time.Time{}, err
		}
	}

	if !validDateTime(year, month, day, hour, minute) {
		return time.Time{}, &Error{
			Kind:    KindValidity,
			Message: msgValidity,
			Detail:  fmt.Sprintf("%s %s", dateTok, timeTok),
		}
	}

	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	// Wall clocks skipped by a DST change come back normalized.
	if t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, &Error{
			Kind:    KindValidity,
			Message: msgValidity,
			Detail:  fmt.Sprintf("%s %s does not exist in %s", dateTok, timeTok, loc),
		}
	}
	return t, nil
}

// splitDate splits "mm/dd/yy" or "mm/dd/yyyy" and applies the year pivot.
func splitDate(tok string) (month, day, year int, err error) {
	parts := strings.Split(tok, "/")
	if len(parts) != 3 {
		return 0, 0, 0, formatError("date %q is not mm/dd/yy", tok)
	}
	if !isDigits(parts[0], 1, 2) || !isDigits(parts[1], 1, 2) {
		return 0, 0, 0, formatError("date %q is not mm/dd/yy", tok)
	}
	yearTok := parts[2]
	if !isDigits(yearTok, 2, 2) && !isDigits(yearTok, 4, 4) {
		return 0, 0, 0, formatError("year %q must have 2 or 4 digits", yearTok)
	}

	month, _ = strconv.Atoi(parts[0])
	day, _ = strconv.Atoi(parts[1])
	year, _ = strconv.Atoi(yearTok)
	if len(yearTok) == 2 {
		year = expandYear(year)
	}
	return month, day, year, nil
}

// splitClock splits "hh:mm".
func splitClock(tok string) (hour, minute int, err error) {
	parts := strings.Split(tok, ":")
	if len(parts) != 2 || !isDigits(parts[0], 1, 2) || !isDigits(parts[1], 1, 2) {
		return 0, 0, formatError("time %q is not hh:mm", tok)
	}
	hour, _ = strconv.Atoi(parts[0])
	minute, _ = strconv.Atoi(parts[1])
	return hour, minute, nil
}

func to24Hour(hour int, meridiem string) (int, error) {
	if hour < 1 || hour > 12 {
		return 0, formatError("hour %d is outside 1-12", hour)
	}
	switch strings.ToLower(meridiem) {
	case "am":
		if hour == 12 {
			return 0, nil
		}
		return hour, nil
	case "pm":
		if hour == 12 {
			return 12, nil
		}
		return hour + 12, nil
	default:
		return 0, formatError("%q is not am or pm", meridiem)
	}
}

// expandYear maps a two-digit year onto a century using pivotYear.
func expandYear(yy int) int {
	if yy <= pivotYear {
		return 2000 + yy
	}
	return 1900 + yy
}

// validDateTime rejects components time.Date would silently normalize.
func validDateTime(year, month, day, hour, minute int) bool {
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && int(t.Month()) == month
}

// isDigits reports whether s is made of ASCII digits with a length in [minLen, maxLen].
func isDigits(s string, minLen, maxLen int) bool {
	if len(s) < minLen || len(s) > maxLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Format24h renders t the way Parse24h reads it.
func Format24h(t time.Time) string {
	return t.Format(Layout24h)
}

// Format12h renders t the way Parse12h reads it.
func Format12h(t time.Time) string {
	return t.Format(Layout12h)
}
