// Package export renders parsed object trees as YAML documents for tools
// that do not read the clausal format.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/daveroberts0321/clausewitz/parser/object"
)

// Generate converts a parsed tree into a YAML document. The document
// records the file it was read from and its top-level keys, followed by the
// tree itself with entry order and repeated keys preserved.
func Generate(n *object.Node, source string) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("nil tree")
	}
	doc := yaml.MapSlice{
		{Key: "source", Value: source},
		{Key: "entries", Value: n.Len()},
		{Key: "keys", Value: n.Keys()},
		{Key: "tree", Value: n},
	}
	return yaml.Marshal(doc)
}

// Path returns where the export of source goes inside dir.
func Path(dir, source string) string {
	base := filepath.Base(source)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".yaml")
}

// WriteFile renders n as YAML and writes it to path, creating the parent
// directory.
func WriteFile(n *object.Node, source, path string) error {
	out, err := Generate(n, source)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
