// Package government reads the government section of a country:
//
//	government = {
//		government = monarchy
//		reform_stack = {
//			reforms = { monarchy_mechanic feudalism_reform }
//		}
//	}
package government

import (
	"slices"

	"github.com/daveroberts0321/clausewitz/parser/dispatch"
	"github.com/daveroberts0321/clausewitz/parser/lexer"
)

// Section is a country's government type and its adopted reforms.
type Section struct {
	Government string
	Reforms    []string
}

// HasReform reports whether reform is part of the reform stack.
func (s Section) HasReform(reform string) bool {
	_, found := slices.BinarySearch(s.Reforms, reform)
	return found
}

// Parse reads a government block. Reforms are returned sorted and without
// duplicates.
func Parse(s *lexer.Stream) (Section, error) {
	var sec Section
	var reforms []string

	stack := dispatch.New().Keyword("reforms", dispatch.Strings(&reforms))
	p := dispatch.New().
		Keyword("government", dispatch.String(&sec.Government)).
		Keyword("reform_stack", dispatch.Block(stack))

	if err := p.ParseBlock(s); err != nil {
		return Section{}, err
	}
	slices.Sort(reforms)
	sec.Reforms = slices.Compact(reforms)
	return sec, nil
}

// Handler returns a handler storing a government section into dst.
func Handler(dst *Section) dispatch.Handler {
	return func(_ string, s *lexer.Stream) error {
		sec, err := Parse(s)
		if err != nil {
			return err
		}
		*dst = sec
		return nil
	}
}
