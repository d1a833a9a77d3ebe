// Package relations reads the diplomatic relation records of a save:
//
//	active_relations = {
//		DAN = { value = 42 military_access = yes last_war = "1660.1.1" }
//	}
//
// Only the fields below are kept; everything else in a record is skipped.
package relations

import (
	"log/slog"

	"github.com/daveroberts0321/clausewitz/eu4/date"
	"github.com/daveroberts0321/clausewitz/parser/dispatch"
	"github.com/daveroberts0321/clausewitz/parser/lexer"
)

// Details is the relation one country holds towards another.
type Details struct {
	Value            int
	MilitaryAccess   bool
	LastSendDiplomat date.Date
	LastWar          date.Date
	Attitude         string
}

// Parse reads one relation record block.
func Parse(s *lexer.Stream, logger *slog.Logger) (Details, error) {
	var d Details
	err := bindings(&d, logger).ParseBlock(s)
	return d, err
}

// bindings returns the binding table filling d. Older saves call the value
// cached_sum. Military access is granted by the key being present at all.
func bindings(d *Details, logger *slog.Logger) *dispatch.Parser {
	return dispatch.New().
		Regex("value|cached_sum", dispatch.Recover(logger, dispatch.Int(&d.Value))).
		Keyword("military_access", dispatch.Present(&d.MilitaryAccess)).
		Keyword("last_send_diplomat", dispatch.Recover(logger, date.Into(&d.LastSendDiplomat))).
		Keyword("last_war", dispatch.Recover(logger, date.Into(&d.LastWar))).
		Keyword("attitude", dispatch.String(&d.Attitude)).
		Regex(".*", dispatch.Ignore)
}

// ParseAll reads a block of relation records keyed by country tag.
func ParseAll(s *lexer.Stream, logger *slog.Logger) (map[string]Details, error) {
	out := make(map[string]Details)
	p := dispatch.New().Fallback(func(tag string, s *lexer.Stream) error {
		d, err := Parse(s, logger)
		if err != nil {
			return err
		}
		out[tag] = d
		return nil
	})
	if err := p.ParseBlock(s); err != nil {
		return nil, err
	}
	return out, nil
}

// Handler returns a handler storing a relation record into dst.
func Handler(dst *Details, logger *slog.Logger) dispatch.Handler {
	return func(_ string, s *lexer.Stream) error {
		d, err := Parse(s, logger)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}

// AllHandler returns a handler storing a block of relation records into dst.
func AllHandler(dst *map[string]Details, logger *slog.Logger) dispatch.Handler {
	return func(_ string, s *lexer.Stream) error {
		all, err := ParseAll(s, logger)
		if err != nil {
			return err
		}
		*dst = all
		return nil
	}
}
