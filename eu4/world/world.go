// Package world reads the top level of a plain-text save game. Provinces are
// built through the generic object tree, countries through binding tables,
// and every other section is skipped.
package world

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/daveroberts0321/clausewitz/eu4/date"
	"github.com/daveroberts0321/clausewitz/eu4/government"
	"github.com/daveroberts0321/clausewitz/eu4/province"
	"github.com/daveroberts0321/clausewitz/eu4/relations"
	perrors "github.com/daveroberts0321/clausewitz/parser/errors"
	"github.com/daveroberts0321/clausewitz/parser/dispatch"
	"github.com/daveroberts0321/clausewitz/parser/lexer"
	"github.com/daveroberts0321/clausewitz/parser/object"
	"github.com/daveroberts0321/clausewitz/source"
)

// Header is the marker plain-text saves start with.
const Header = "EU4txt"

// Country is the part of a country record the reader keeps.
type Country struct {
	Tag        string
	Capital    int
	Government government.Section
	Relations  map[string]relations.Details
}

// World is a parsed save.
type World struct {
	Header    string
	Date      date.Date
	Provinces map[int]*province.Province
	Countries map[string]*Country
}

// ProvinceNums returns the province numbers in ascending order.
func (w *World) ProvinceNums() []int {
	nums := make([]int, 0, len(w.Provinces))
	for num := range w.Provinces {
		nums = append(nums, num)
	}
	sort.Ints(nums)
	return nums
}

// ReadFile reads the save at path.
func ReadFile(path string, logger *slog.Logger) (*World, error) {
	data, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	w, err := Read(lexer.New(data, lexer.WithFilename(path)), logger)
	return w, perrors.InFile(err, path)
}

// Read parses a whole save from s.
func Read(s *lexer.Stream, logger *slog.Logger) (*World, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := &World{
		Provinces: make(map[int]*province.Province),
		Countries: make(map[string]*Country),
	}

	p := dispatch.New().
		Keyword("date", dispatch.Recover(logger, date.Into(&w.Date))).
		Keyword("provinces", func(_ string, s *lexer.Stream) error {
			return readProvinces(s, w, logger)
		}).
		Keyword("countries", func(_ string, s *lexer.Stream) error {
			return readCountries(s, w, logger)
		}).
		Items(func(tok lexer.Token) error {
			if w.Header == "" && tok.Text == Header {
				w.Header = tok.Text
			}
			return nil
		})

	if err := p.Parse(s); err != nil {
		return nil, err
	}
	logger.Debug("save parsed",
		"date", w.Date.String(),
		"provinces", len(w.Provinces),
		"countries", len(w.Countries))
	return w, nil
}

func readProvinces(s *lexer.Stream, w *World, logger *slog.Logger) error {
	n, err := object.ParseBlock(s)
	if err != nil {
		return err
	}
	for _, e := range n.Entries() {
		block := e.Value.Block()
		if block == nil {
			continue
		}
		prov, err := province.FromObject(e.Key, block, logger)
		if err != nil {
			return perrors.WithKey(fmt.Errorf("%w (%s)", err, e.Pos), e.Key)
		}
		w.Provinces[prov.Num] = prov
	}
	return nil
}

func readCountries(s *lexer.Stream, w *World, logger *slog.Logger) error {
	p := dispatch.New().Fallback(func(tag string, s *lexer.Stream) error {
		c := &Country{Tag: tag}
		fields := dispatch.New().
			Keyword("capital", dispatch.Recover(logger, dispatch.Int(&c.Capital))).
			Keyword("government", government.Handler(&c.Government)).
			Keyword("active_relations", relations.AllHandler(&c.Relations, logger))
		if err := fields.ParseBlock(s); err != nil {
			return err
		}
		w.Countries[tag] = c
		return nil
	})
	return p.ParseBlock(s)
}
