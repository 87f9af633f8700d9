package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type manifest struct {
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	Tags         []string       `yaml:"tags,omitempty"`
	Placeholders []Placeholder  `yaml:"placeholders,omitempty"`
	Files        []manifestFile `yaml:"files,omitempty"`
}

type manifestFile struct {
	Path   string `yaml:"path"`
	Mode   Mode   `yaml:"mode"`
	Target string `yaml:"target,omitempty"`
}

// LoadTemplateFS loads a template rooted at fsys. The manifest is optional;
// without one every file is copied verbatim and the template is named
// fallbackName.
func LoadTemplateFS(fsys fs.FS, fallbackName, source string) (*Template, error) {
	m, err := readManifest(fsys)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", fallbackName, err)
	}

	name := strings.TrimSpace(m.Name)
	if name == "" {
		name = fallbackName
	}

	tmpl := &Template{
		Name:         name,
		Description:  strings.TrimSpace(m.Description),
		Tags:         m.Tags,
		Placeholders: m.Placeholders,
		Source:       source,
		FS:           fsys,
	}

	declared := make(map[string]manifestFile, len(m.Files))
	for _, mf := range m.Files {
		p := path.Clean(strings.TrimSpace(mf.Path))
		if !fs.ValidPath(p) || p == "." {
			return nil, &FileError{Template: name, Path: mf.Path, Message: "invalid path"}
		}
		if p == ManifestName {
			return nil, &FileError{Template: name, Path: mf.Path, Message: "manifest cannot be declared as a file"}
		}
		if _, dup := declared[p]; dup {
			return nil, &FileError{Template: name, Path: p, Message: "declared more than once"}
		}
		mf.Path = p
		if mf.Mode == "" {
			mf.Mode = ModeCopy
		}
		declared[p] = mf
	}

	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", p, err)
		}
		if d.IsDir() {
			return nil
		}
		if p == ManifestName {
			tmpl.Ignored = append(tmpl.Ignored, IgnoredFile{Path: p, Reason: ReasonManifest})
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			tmpl.Ignored = append(tmpl.Ignored, IgnoredFile{Path: p, Reason: ReasonSymlink})
			return nil
		}
		if !d.Type().IsRegular() {
			tmpl.Ignored = append(tmpl.Ignored, IgnoredFile{Path: p, Reason: ReasonIrregular})
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		perm := fs.FileMode(0o644)
		if info.Mode().Perm()&0o111 != 0 {
			perm = 0o755
		}

		file := File{Path: p, Mode: ModeCopy, Perm: perm}
		if mf, ok := declared[p]; ok {
			file.Mode = mf.Mode
			if target := strings.TrimSpace(mf.Target); target != "" {
				file.Target = path.Clean(target)
			}
			delete(declared, p)
		}
		tmpl.Files = append(tmpl.Files, file)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}

	if len(declared) > 0 {
		missing := make([]string, 0, len(declared))
		for p := range declared {
			missing = append(missing, p)
		}
		sort.Strings(missing)
		return nil, &FileError{Template: name, Path: missing[0], Message: "declared in manifest but not present"}
	}

	sort.Slice(tmpl.Files, func(i, j int) bool {
		return tmpl.Files[i].Path < tmpl.Files[j].Path
	})

	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func readManifest(fsys fs.FS) (*manifest, error) {
	data, err := fs.ReadFile(fsys, ManifestName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &manifest{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", ManifestName, err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestName, err)
	}
	return &m, nil
}

// LoadTemplateDir loads the template rooted at dir.
func LoadTemplateDir(dir string) (*Template, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("template directory is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat template dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template path %s is not a directory", dir)
	}
	return LoadTemplateFS(os.DirFS(dir), filepath.Base(dir), dir)
}

// LoadTemplatesFromDir loads every template directory directly under root.
// A missing root yields no templates.
func LoadTemplatesFromDir(root string) ([]*Template, error) {
	if strings.TrimSpace(root) == "" {
		return []*Template{}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Template{}, nil
		}
		return nil, fmt.Errorf("read templates dir %s: %w", root, err)
	}

	templates := make([]*Template, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		tmpl, err := LoadTemplateDir(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}
