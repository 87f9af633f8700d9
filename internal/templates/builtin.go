package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

// Builtin template trees. The all: prefix keeps dot-prefixed files.
//
//go:embed all:builtin
var builtinFS embed.FS

// BuiltinSource is the Source of templates bundled with tempura.
const BuiltinSource = "builtin"

// LoadBuiltinTemplates returns the templates bundled with tempura.
func LoadBuiltinTemplates() ([]*Template, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin templates: %w", err)
	}

	templates := make([]*Template, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub, err := fs.Sub(builtinFS, path.Join("builtin", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("open builtin template %s: %w", entry.Name(), err)
		}
		tmpl, err := LoadTemplateFS(sub, entry.Name(), BuiltinSource)
		if err != nil {
			return nil, fmt.Errorf("load builtin template %s: %w", entry.Name(), err)
		}
		templates = append(templates, tmpl)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})

	return templates, nil
}
