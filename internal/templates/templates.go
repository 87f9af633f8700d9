// Package templates provides project template loading and placeholder rendering.
package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
)

// ManifestName is the per-template manifest file. It is never materialized.
const ManifestName = "template.yaml"

var (
	// ErrTemplateNotFound is returned when no template has the requested name.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrTemplateNameRequired is returned when a template has no usable name.
	ErrTemplateNameRequired = errors.New("template name is required")
)

// Mode is how a template file is handled when materialized.
type Mode string

const (
	// ModeCopy writes the bytes unchanged under the same path.
	ModeCopy Mode = "copy"
	// ModeSubstitute replaces {{key}} placeholders before writing.
	ModeSubstitute Mode = "substitute"
	// ModeRename writes the bytes unchanged under File.Target.
	ModeRename Mode = "rename"
)

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeCopy, ModeSubstitute, ModeRename:
		return true
	}
	return false
}

// Template is a starter project: a file tree plus its declared handling rules.
type Template struct {
	Name         string
	Description  string
	Tags         []string
	Placeholders []Placeholder
	Files        []File        // sorted by Path
	Ignored      []IgnoredFile // entries under the root that are never materialized
	Source       string        // directory path or "builtin"

	// FS is rooted at the template root.
	FS fs.FS
}

// File is a single template file entry.
type File struct {
	Path   string      // slash-separated, relative to the template root
	Mode   Mode
	Target string      // output path for ModeRename
	Perm   fs.FileMode // permission for the written file
}

// OutputPath returns the materialized relative path.
func (f File) OutputPath() string {
	if f.Mode == ModeRename {
		return f.Target
	}
	return f.Path
}

// IgnoredFile is a template root entry excluded from materialization.
type IgnoredFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Ignore reasons.
const (
	ReasonManifest  = "manifest"
	ReasonSymlink   = "symlink"
	ReasonIrregular = "irregular file"
)

// Placeholder declares a substitution key a template expects.
type Placeholder struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	Default     string `yaml:"default,omitempty" json:"default,omitempty"`
	Required    bool   `yaml:"required" json:"required"`
	// Pattern, when set, is a regular expression every supplied value must match.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
}

// FileError describes an invalid file declaration in a template manifest.
type FileError struct {
	Template string
	Path     string
	Message  string
}

func (e *FileError) Error() string {
	return fmt.Sprintf("template %s: file %s: %s", e.Template, e.Path, e.Message)
}

// OutputPaths returns the materialized relative paths in file order.
func (t *Template) OutputPaths() []string {
	paths := make([]string, 0, len(t.Files))
	for _, f := range t.Files {
		paths = append(paths, f.OutputPath())
	}
	return paths
}

// Placeholder returns the declaration for name.
func (t *Template) Placeholder(name string) (Placeholder, bool) {
	for _, p := range t.Placeholders {
		if p.Name == name {
			return p, true
		}
	}
	return Placeholder{}, false
}

// Validate checks the template invariants: unique file paths, known modes,
// clean rename targets and unique output paths.
func (t *Template) Validate() error {
	if err := ValidateName(t.Name); err != nil {
		return err
	}

	paths := make(map[string]bool, len(t.Files))
	outputs := make(map[string]string, len(t.Files))
	for _, f := range t.Files {
		if paths[f.Path] {
			return &FileError{Template: t.Name, Path: f.Path, Message: "duplicate path"}
		}
		paths[f.Path] = true

		if !f.Mode.Valid() {
			return &FileError{Template: t.Name, Path: f.Path, Message: fmt.Sprintf("unknown mode %q", f.Mode)}
		}
		if f.Mode == ModeRename {
			if f.Target == "" {
				return &FileError{Template: t.Name, Path: f.Path, Message: "rename requires a target"}
			}
			if !fs.ValidPath(f.Target) || f.Target == "." {
				return &FileError{Template: t.Name, Path: f.Path, Message: fmt.Sprintf("invalid rename target %q", f.Target)}
			}
			if f.Target == f.Path {
				return &FileError{Template: t.Name, Path: f.Path, Message: "rename target equals path"}
			}
		} else if f.Target != "" {
			return &FileError{Template: t.Name, Path: f.Path, Message: fmt.Sprintf("target is only valid for mode %q", ModeRename)}
		}

		out := f.OutputPath()
		if prev, ok := outputs[out]; ok {
			return &FileError{Template: t.Name, Path: f.Path, Message: fmt.Sprintf("output path %s collides with %s", out, prev)}
		}
		outputs[out] = f.Path
	}

	seen := make(map[string]bool, len(t.Placeholders))
	for _, p := range t.Placeholders {
		if !placeholderKey.MatchString(p.Name) {
			return fmt.Errorf("template %s: invalid placeholder name %q", t.Name, p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("template %s: duplicate placeholder %q", t.Name, p.Name)
		}
		if p.Pattern != "" {
			if _, err := regexp.Compile(p.Pattern); err != nil {
				return fmt.Errorf("template %s: placeholder %q: invalid pattern: %w", t.Name, p.Name, err)
			}
		}
		seen[p.Name] = true
	}
	return nil
}

// ValidateName checks that name is usable as a template identifier.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrTemplateNameRequired
	}
	if trimmed != name {
		return fmt.Errorf("template name %q has surrounding whitespace", name)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid template name %q", name)
	}
	return nil
}
