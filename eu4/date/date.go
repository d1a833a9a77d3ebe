// Package date handles the YEAR.MONTH.DAY dates used by the games, as in
// "1444.11.11". Dates are written either bare or quoted.
package date

import (
	"fmt"
	"strconv"
	"strings"

	perrors "github.com/daveroberts0321/clausewitz/parser/errors"
	"github.com/daveroberts0321/clausewitz/parser/dispatch"
	"github.com/daveroberts0321/clausewitz/parser/lexer"
	"github.com/daveroberts0321/clausewitz/parser/read"
)

// Pattern matches the keys of dated history entries.
const Pattern = `-?[0-9]+\.[0-9]+\.[0-9]+`

// Date is a calendar date. The games use a calendar without leap years, so
// no day-of-month validation beyond 1..31 is done.
type Date struct {
	Year  int
	Month int
	Day   int
}

// New returns the date year.month.day.
func New(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// Parse reads a date from its textual form. Missing month or day parts
// default to 1, so "1444" is 1444.1.1.
func Parse(text string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(text), ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return Date{}, fmt.Errorf("invalid date %q", text)
	}
	nums := [3]int{0, 1, 1}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Date{}, fmt.Errorf("invalid date %q: %w", text, err)
		}
		nums[i] = n
	}
	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return Date{}, fmt.Errorf("invalid date %q: month or day out of range", text)
	}
	return d, nil
}

// String returns the date in the game's own notation.
func (d Date) String() string {
	return fmt.Sprintf("%d.%d.%d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	default:
		return sign(d.Day - other.Day)
	}
}

// Before reports whether d is before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is after other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Read reads a date value from the stream. An unparsable date is consumed
// and reported as ErrMalformedValue.
func Read(s *lexer.Stream) (Date, error) {
	pos := s.Location()
	text, err := read.String(s)
	if err != nil {
		return Date{}, err
	}
	d, err := Parse(text)
	if err != nil {
		return Date{}, perrors.New(perrors.ErrMalformedValue, pos, "%v", err)
	}
	return d, nil
}

// Into returns a handler storing a date value into dst.
func Into(dst *Date) dispatch.Handler {
	return func(_ string, s *lexer.Stream) error {
		d, err := Read(s)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}
