package templates

import (
	"os"
	"path/filepath"
)

// TemplateSearchPaths returns template search directories in precedence order.
func TemplateSearchPaths(projectDir string, extraDirs ...string) []string {
	paths := make([]string, 0, 3+len(extraDirs))
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".tempura", "templates"))
	}

	paths = append(paths, extraDirs...)

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "tempura", "templates"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "tempura", "templates"))
	return paths
}

// LoadCatalog builds a catalog from the search paths and the builtin set.
// A name found earlier in the search order shadows later ones; builtins come last.
func LoadCatalog(projectDir string, extraDirs ...string) (*Catalog, error) {
	var all []*Template
	for _, path := range TemplateSearchPaths(projectDir, extraDirs...) {
		templates, err := LoadTemplatesFromDir(path)
		if err != nil {
			return nil, err
		}
		all = append(all, templates...)
	}

	builtins, err := LoadBuiltinTemplates()
	if err != nil {
		return nil, err
	}
	all = append(all, builtins...)

	return NewCatalog(all...), nil
}
