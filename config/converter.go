package config

import (
	"fmt"

	"github.com/daveroberts0321/clausewitz/parser/object"
)

// Converter is the converter's configuration.txt:
//
//	configuration = {
//		EU4directory = "C:\Games\Europa Universalis IV"
//		V2directory = "C:\Games\Victoria 2"
//	}
type Converter struct {
	EU4Directory string
	V2Directory  string
	ModDirectory string

	// Settings holds every entry of the section, including the ones above.
	Settings *object.Node
}

// Setting returns the scalar value of key, or "".
func (c *Converter) Setting(key string) string {
	return c.Settings.Leaf(key)
}

// LoadConverter reads a configuration.txt. The file must contain exactly
// one configuration section.
func LoadConverter(path string) (*Converter, error) {
	root, err := object.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read converter configuration: %w", err)
	}
	sections := root.Children("configuration")
	if len(sections) != 1 {
		return nil, fmt.Errorf("%s must contain exactly one configuration section, found %d", path, len(sections))
	}
	sec := sections[0]
	return &Converter{
		EU4Directory: sec.Leaf("EU4directory"),
		V2Directory:  sec.Leaf("V2directory"),
		ModDirectory: sec.Leaf("modDirectory"),
		Settings:     sec,
	}, nil
}
