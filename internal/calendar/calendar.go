// Package calendar buckets instants into civil days of the regional timezone.
// Complaint numbering, the dashboard date filter and report periods all go
// through a single Zone so they agree on where a day starts and ends.
package calendar

import (
	"fmt"
	"time"
)

// RegionalOffset is the fixed offset of the residence's timezone (UTC+2, no DST).
const RegionalOffset = 2 * time.Hour

const dateLayout = "2006-01-02"

// Date is a civil date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalises out-of-range values the same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate accepts only YYYY-MM-DD.
func ParseDate(s string) (Date, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, false
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, true
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return NewDate(d.Year, d.Month, d.Day+n)
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.midnight(time.UTC).Before(o.midnight(time.UTC))
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Span is a half-open interval [From, To) of UTC instants.
type Span struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the span.
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.From) && t.Before(s.To)
}

// Zone converts between instants and regional civil dates.
type Zone struct {
	loc *time.Location
	now func() time.Time
}

// Regional returns the default fixed UTC+2 zone.
func Regional() *Zone {
	return NewZone(time.FixedZone("SAST", int(RegionalOffset.Seconds())))
}

// Load resolves an IANA zone name; an empty name yields Regional.
func Load(name string) (*Zone, error) {
	if name == "" {
		return Regional(), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return NewZone(loc), nil
}

// NewZone wraps loc using the wall clock.
func NewZone(loc *time.Location) *Zone {
	return &Zone{loc: loc, now: time.Now}
}

// WithClock returns a copy of z reading time from now.
func (z *Zone) WithClock(now func() time.Time) *Zone {
	return &Zone{loc: z.loc, now: now}
}

// Location returns the underlying location.
func (z *Zone) Location() *time.Location { return z.loc }

// Now is the current instant expressed in the regional zone.
func (z *Zone) Now() time.Time {
	return z.now().In(z.loc)
}

// Today is the regional civil date of Now.
func (z *Zone) Today() Date {
	return z.DateOf(z.now())
}

// DateOf returns the regional civil date containing t.
func (z *Zone) DateOf(t time.Time) Date {
	t = t.In(z.loc)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DaySpan is the UTC span covering the regional day d.
func (z *Zone) DaySpan(d Date) Span {
	return z.Span(d, d)
}

// Span covers the regional days from through to, both inclusive.
func (z *Zone) Span(from, to Date) Span {
	return Span{
		From: from.midnight(z.loc).UTC(),
		To:   to.AddDays(1).midnight(z.loc).UTC(),
	}
}
