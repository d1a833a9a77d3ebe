package province

import (
	"log/slog"
	"slices"

	"github.com/daveroberts0321/clausewitz/eu4/date"
	"github.com/daveroberts0321/clausewitz/parser/dispatch"
	"github.com/daveroberts0321/clausewitz/parser/lexer"
)

// History is the history block of a province: its starting state followed
// by dated events.
type History struct {
	Owner    string
	Culture  string
	Religion string

	Events []Event
}

// Event is one dated history entry. Empty fields did not change.
type Event struct {
	Date        date.Date
	Owner       string
	Controller  string
	Culture     string
	Religion    string
	AddCores    []string
	RemoveCores []string
}

// ParseHistory reads the statements of a history block up to the end of
// the stream. Events are returned sorted by date; events on the same date
// keep their order.
func ParseHistory(s *lexer.Stream, logger *slog.Logger) (*History, error) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &History{}
	p := dispatch.New().
		Keyword("owner", dispatch.String(&h.Owner)).
		Keyword("culture", dispatch.String(&h.Culture)).
		Keyword("religion", dispatch.String(&h.Religion)).
		Regex(date.Pattern, func(key string, s *lexer.Stream) error {
			d, err := date.Parse(key)
			if err != nil {
				logger.Warn("skipping history entry", "key", key, "error", err)
				return dispatch.Ignore(key, s)
			}
			ev, err := parseEvent(s)
			if err != nil {
				return err
			}
			ev.Date = d
			h.Events = append(h.Events, ev)
			return nil
		})

	if err := p.Parse(s); err != nil {
		return nil, err
	}
	slices.SortStableFunc(h.Events, func(a, b Event) int {
		return a.Date.Compare(b.Date)
	})
	return h, nil
}

func parseEvent(s *lexer.Stream) (Event, error) {
	var ev Event
	controller := dispatch.New().Keyword("tag", dispatch.String(&ev.Controller))
	p := dispatch.New().
		Keyword("owner", dispatch.String(&ev.Owner)).
		Keyword("culture", dispatch.String(&ev.Culture)).
		Keyword("religion", dispatch.String(&ev.Religion)).
		Keyword("add_core", dispatch.Strings(&ev.AddCores)).
		Keyword("remove_core", dispatch.Strings(&ev.RemoveCores)).
		Keyword("controller", func(key string, s *lexer.Stream) error {
			// either "controller = SWE" or "controller = { tag = SWE }"
			if tok, err := s.Peek(); err == nil && tok.Kind == lexer.BlockOpen {
				return controller.ParseBlock(s)
			}
			return dispatch.String(&ev.Controller)(key, s)
		})
	err := p.ParseBlock(s)
	return ev, err
}

// FirstOwnedDate returns the date of the earliest dated event that sets an
// owner.
func (h *History) FirstOwnedDate() (date.Date, bool) {
	for _, ev := range h.Events {
		if ev.Owner != "" {
			return ev.Date, true
		}
	}
	return date.Date{}, false
}

// WasColonized reports whether the history starts without an owner and an
// owner appears later.
func (h *History) WasColonized() bool {
	if h.Owner != "" {
		return false
	}
	_, owned := h.FirstOwnedDate()
	return owned
}

// OwnerAt returns the owner in effect on d.
func (h *History) OwnerAt(d date.Date) string {
	owner := h.Owner
	for _, ev := range h.Events {
		if ev.Date.After(d) {
			break
		}
		if ev.Owner != "" {
			owner = ev.Owner
		}
	}
	return owner
}
