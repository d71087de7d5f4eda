package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"complaints-backend/internal/calendar"
)

var yearMonthRe = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// PeriodKind enumerates the report periods an admin can export.
type PeriodKind int

const (
	PeriodToday PeriodKind = iota
	PeriodWeek
	PeriodMonth
	PeriodAll
	PeriodYearMonth
)

// Period is a parsed report period. Year and Month are set only for
// PeriodYearMonth.
type Period struct {
	Kind  PeriodKind
	Year  int
	Month time.Month
}

// ParsePeriod maps a URL token to a Period. Unrecognised tokens yield today.
func ParsePeriod(token string) Period {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "today":
		return Period{Kind: PeriodToday}
	case "week":
		return Period{Kind: PeriodWeek}
	case "month":
		return Period{Kind: PeriodMonth}
	case "all":
		return Period{Kind: PeriodAll}
	}

	m := yearMonthRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return Period{Kind: PeriodToday}
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if year < 1 || month < 1 || month > 12 {
		return Period{Kind: PeriodToday}
	}
	return Period{Kind: PeriodYearMonth, Year: year, Month: time.Month(month)}
}

// Token is the canonical URL form of p.
func (p Period) Token() string {
	switch p.Kind {
	case PeriodWeek:
		return "week"
	case PeriodMonth:
		return "month"
	case PeriodAll:
		return "all"
	case PeriodYearMonth:
		return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
	default:
		return "today"
	}
}

// Title is the human-readable heading used on the report.
func (p Period) Title() string {
	switch p.Kind {
	case PeriodWeek:
		return "This Week's Complaints"
	case PeriodMonth:
		return "This Month's Complaints"
	case PeriodAll:
		return "All Complaints"
	case PeriodYearMonth:
		return fmt.Sprintf("Complaints for %s %d", p.Month, p.Year)
	default:
		return "Today's Complaints"
	}
}

// Range returns the inclusive civil-date range of p relative to today.
// bounded is false for PeriodAll, in which case from and to are zero.
func (p Period) Range(today calendar.Date) (from, to calendar.Date, bounded bool) {
	switch p.Kind {
	case PeriodAll:
		return calendar.Date{}, calendar.Date{}, false
	case PeriodWeek:
		return today.AddDays(-7), today, true
	case PeriodMonth:
		return calendar.NewDate(today.Year, today.Month, 1), today, true
	case PeriodYearMonth:
		first := calendar.NewDate(p.Year, p.Month, 1)
		last := calendar.NewDate(p.Year, p.Month+1, 1).AddDays(-1)
		return first, last, true
	default:
		return today, today, true
	}
}
