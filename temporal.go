package mgclient

import (
	"fmt"
	"time"
)

// Date is a calendar date without a clock or zone.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (Date) Kind() Kind { return KindDate }
func (Date) sealed()    {}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// NewDate extracts the calendar date of t in its own location.
func NewDate(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: int(month), Day: day}
}

// Time returns midnight of the date in UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// LocalTime is a clock reading without a date or zone, at nanosecond
// precision.
type LocalTime struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

func (LocalTime) Kind() Kind { return KindLocalTime }
func (LocalTime) sealed()    {}

func (lt LocalTime) String() string {
	if lt.Nanosecond == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", lt.Hour, lt.Minute, lt.Second)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%09d", lt.Hour, lt.Minute, lt.Second, lt.Nanosecond)
}

// NewLocalTime extracts the clock reading of t in its own location.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
	}
}

// LocalDateTime is a calendar date with a clock reading, without a
// zone.
type LocalDateTime struct {
	Year       int
	Month      int
	Day        int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

func (LocalDateTime) Kind() Kind { return KindLocalDateTime }
func (LocalDateTime) sealed()    {}

func (ldt LocalDateTime) String() string {
	date := Date{Year: ldt.Year, Month: ldt.Month, Day: ldt.Day}
	clock := LocalTime{Hour: ldt.Hour, Minute: ldt.Minute, Second: ldt.Second, Nanosecond: ldt.Nanosecond}
	return date.String() + " " + clock.String()
}

// NewLocalDateTime extracts the wall-clock reading of t in its own
// location.
func NewLocalDateTime(t time.Time) LocalDateTime {
	year, month, day := t.Date()
	return LocalDateTime{
		Year:       year,
		Month:      int(month),
		Day:        day,
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
	}
}

// Time returns the wall-clock reading interpreted in UTC.
func (ldt LocalDateTime) Time() time.Time {
	return time.Date(ldt.Year, time.Month(ldt.Month), ldt.Day,
		ldt.Hour, ldt.Minute, ldt.Second, ldt.Nanosecond, time.UTC)
}

// DateTime is a wall-clock reading with a timezone, either a fixed UTC
// offset or a named zone. It appears in results only; it is not a legal
// query parameter.
type DateTime struct {
	Year       int
	Month      int
	Day        int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int

	// TZOffsetSeconds is the fixed UTC offset; meaningful only when
	// TZName is empty.
	TZOffsetSeconds int

	// TZName is the IANA zone name; empty means offset-only.
	TZName string
}

func (DateTime) Kind() Kind { return KindDateTime }
func (DateTime) sealed()    {}

func (dt DateTime) String() string {
	local := LocalDateTime{
		Year: dt.Year, Month: dt.Month, Day: dt.Day,
		Hour: dt.Hour, Minute: dt.Minute, Second: dt.Second, Nanosecond: dt.Nanosecond,
	}
	if dt.TZName != "" {
		return local.String() + " " + dt.TZName
	}
	return local.String() + formatOffset(dt.TZOffsetSeconds)
}

// Time resolves the reading into a time.Time. Named zones are looked up
// in the platform zone database.
func (dt DateTime) Time() (time.Time, error) {
	loc := time.FixedZone("", dt.TZOffsetSeconds)
	if dt.TZName != "" {
		var err error
		loc, err = time.LoadLocation(dt.TZName)
		if err != nil {
			return time.Time{}, fmt.Errorf("resolve zone %q: %w", dt.TZName, err)
		}
	}
	return time.Date(dt.Year, time.Month(dt.Month), dt.Day,
		dt.Hour, dt.Minute, dt.Second, dt.Nanosecond, loc), nil
}

func formatOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if s != 0 {
		return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%s%02d:%02d", sign, h, m)
}

// Duration is a signed span of time with nanosecond precision.
type Duration time.Duration

func (Duration) Kind() Kind { return KindDuration }
func (Duration) sealed()    {}

func (d Duration) String() string { return time.Duration(d).String() }

// maxEpochDays bounds calendar arithmetic far beyond any date a server
// produces while keeping every intermediate product inside int64.
const maxEpochDays = 100_000_000

const nanosPerDay = int64(24 * time.Hour)

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// daysFromCivil converts a calendar date to days since 1970-01-01 using
// exact era arithmetic, valid across the whole proleptic Gregorian
// calendar.
func daysFromCivil(year, month, day int) int64 {
	y := int64(year)
	m := int64(month)
	d := int64(day)
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era--
	}
	yoe := y - era*400
	var mp int64
	if m > 2 {
		mp = m - 3
	} else {
		mp = m + 9
	}
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilFromDays is the inverse of daysFromCivil.
func civilFromDays(days int64) (year, month, day int) {
	z := days + 719468
	era := z / 146097
	if z < 0 && z%146097 != 0 {
		era--
	}
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	var m int64
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return int(y), int(m), int(d)
}
