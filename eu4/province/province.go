// Package province builds province records from the generic object tree of
// a save's provinces section. The history block is handed to a dedicated
// binding table; everything else is read with the tree accessors.
package province

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/daveroberts0321/clausewitz/eu4/date"
	"github.com/daveroberts0321/clausewitz/parser/lexer"
	"github.com/daveroberts0321/clausewitz/parser/object"
)

// Province is one province of a save.
type Province struct {
	Num  int
	Name string

	Owner      string
	Cores      []string
	InHRE      bool
	TradeGoods string

	BaseTax        float64
	BaseProduction float64
	BaseManpower   float64

	Buildings     map[string]bool
	GreatProjects map[string]bool

	History *History
}

// FromObject builds a province from its entry in the provinces section.
// key is the entry's key, the province number written as "-N".
func FromObject(key string, n *object.Node, logger *slog.Logger) (*Province, error) {
	if logger == nil {
		logger = slog.Default()
	}
	num, err := strconv.Atoi(key)
	if err != nil {
		return nil, fmt.Errorf("invalid province key %q: %w", key, err)
	}
	if num < 0 {
		num = -num
	}

	p := &Province{
		Num:        num,
		Name:       n.Leaf("name"),
		Owner:      n.Leaf("owner"),
		InHRE:      n.Leaf("hre") == "yes",
		TradeGoods: n.Leaf("trade_goods"),
	}
	log := logger.With("province", num)

	p.BaseTax = number(n, "base_tax", log)
	p.BaseProduction = number(n, "base_production", log)
	p.BaseManpower = number(n, "base_manpower", log)
	// saves before 1.12 have only a tax value and an old-style manpower
	if p.BaseProduction == 0 && p.BaseTax > 0 {
		p.BaseProduction = p.BaseTax
	}
	if p.BaseManpower == 0 {
		p.BaseManpower = number(n, "manpower", log)
	}

	// "cores = { A B }" since 1.23, repeated "core = A" before
	if vals := n.Values("cores"); len(vals) == 1 {
		p.Cores = vals[0].Tokens()
	} else {
		p.Cores = n.Leaves("core")
	}

	p.Buildings = names(n.Child("buildings"))
	p.GreatProjects = names(n.Child("great_projects"))

	if h := n.Child("history"); h != nil {
		hist, err := ParseHistory(lexer.NewString(h.String()), log)
		if err != nil {
			return nil, fmt.Errorf("province %d: %w", num, err)
		}
		p.History = hist
	} else {
		p.History = &History{}
	}
	return p, nil
}

// number returns the numeric leaf at key, or 0 when it is missing or
// malformed.
func number(n *object.Node, key string, logger *slog.Logger) float64 {
	text := n.Leaf(key)
	if text == "" {
		return 0
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		logger.Warn("skipping malformed value", "key", key, "value", text)
		return 0
	}
	return f
}

// names collects the keys and bare tokens of a block as a set.
func names(n *object.Node) map[string]bool {
	out := make(map[string]bool)
	for _, key := range n.Keys() {
		out[key] = true
	}
	for _, tok := range n.Tokens() {
		out[tok] = true
	}
	return out
}

// AddCore adds tag to the province's cores.
func (p *Province) AddCore(tag string) {
	p.Cores = append(p.Cores, tag)
}

// RemoveCore removes every occurrence of tag from the province's cores.
func (p *Province) RemoveCore(tag string) {
	p.Cores = slices.DeleteFunc(p.Cores, func(c string) bool { return c == tag })
}

// HasCore reports whether tag holds a core on the province.
func (p *Province) HasCore(tag string) bool {
	return slices.Contains(p.Cores, tag)
}

// HasBuilding reports whether the province has the building or great
// project.
func (p *Province) HasBuilding(building string) bool {
	return p.Buildings[building] || p.GreatProjects[building]
}

// FirstOwnedDate returns the date of the first dated ownership change.
func (p *Province) FirstOwnedDate() (date.Date, bool) {
	return p.History.FirstOwnedDate()
}

// WasColonized reports whether the province started without an owner and
// gained one later.
func (p *Province) WasColonized() bool {
	return p.History.WasColonized()
}
