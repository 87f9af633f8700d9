// Package materialize copies a project template into a destination directory,
// substituting placeholders and renaming marker files.
//
// A call is a single sequential pass over the template's files in path order.
// There is no rollback: when a call fails, files written before the failure
// stay on disk.
package materialize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nihi-lo/tempura/internal/templates"
)

// Catalog resolves template identifiers.
type Catalog interface {
	Lookup(name string) (*templates.Template, error)
}

// Options control a materialization.
type Options struct {
	// Overwrite allows writing into a non-empty destination, replacing files
	// that already exist.
	Overwrite bool
	// DryRun resolves output paths and substitutions without writing.
	DryRun bool
}

// Result describes a completed materialization.
type Result struct {
	ID          string
	Template    string
	Destination string
	Written     []string // slash-separated output paths, in processing order
	Skipped     []Skip
	DryRun      bool
	Duration    time.Duration
}

// Skip is a template entry that was not written.
type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Materializer turns templates into project directories.
type Materializer struct {
	catalog Catalog
	logger  zerolog.Logger
}

// New creates a Materializer backed by catalog.
func New(catalog Catalog, logger zerolog.Logger) *Materializer {
	return &Materializer{catalog: catalog, logger: logger}
}

// Materialize writes template templateID into destination.
func (m *Materializer) Materialize(templateID, destination string, substitutions map[string]string, opts Options) (*Result, error) {
	started := time.Now()

	if m.catalog == nil {
		return nil, errors.New("template catalog is required")
	}
	tmpl, err := m.catalog.Lookup(templateID)
	if err != nil {
		return nil, &Error{Kind: KindUnknownTemplate, Template: templateID, Err: err}
	}

	if destination == "" {
		return nil, fsError("", errors.New("destination is required"))
	}
	root, err := filepath.Abs(destination)
	if err != nil {
		return nil, fsError(destination, err)
	}
	if err := checkDestination(root, opts.Overwrite); err != nil {
		return nil, err
	}

	result := &Result{
		ID:          uuid.New().String(),
		Template:    tmpl.Name,
		Destination: root,
		Written:     make([]string, 0, len(tmpl.Files)),
		DryRun:      opts.DryRun,
	}
	for _, ignored := range tmpl.Ignored {
		result.Skipped = append(result.Skipped, Skip{Path: ignored.Path, Reason: ignored.Reason})
	}

	logger := m.logger.With().
		Str("id", result.ID).
		Str("template", tmpl.Name).
		Str("destination", root).
		Logger()

	resolvedRoot := root
	if !opts.DryRun {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fsError(root, err)
		}
		resolvedRoot, err = filepath.EvalSymlinks(root)
		if err != nil {
			return nil, fsError(root, err)
		}
	}

	for _, file := range tmpl.Files {
		out := file.OutputPath()
		target, err := joinWithin(root, out)
		if err != nil {
			return nil, &Error{Kind: KindFilesystem, Template: tmpl.Name, Path: out, Err: err}
		}

		data, err := m.content(tmpl, file, substitutions)
		if err != nil {
			return nil, err
		}

		if opts.DryRun {
			result.Written = append(result.Written, out)
			continue
		}

		if err := writeFile(target, resolvedRoot, data, file.Perm, opts.Overwrite); err != nil {
			return nil, &Error{Kind: KindFilesystem, Template: tmpl.Name, Path: out, Err: err}
		}
		logger.Debug().Str("path", out).Str("mode", string(file.Mode)).Int("bytes", len(data)).Msg("wrote file")
		result.Written = append(result.Written, out)
	}

	result.Duration = time.Since(started)
	logger.Info().
		Int("written", len(result.Written)).
		Int("skipped", len(result.Skipped)).
		Bool("dry_run", opts.DryRun).
		Dur("duration", result.Duration).
		Msg("template materialized")

	return result, nil
}

func (m *Materializer) content(tmpl *templates.Template, file templates.File, substitutions map[string]string) ([]byte, error) {
	data, err := fs.ReadFile(tmpl.FS, file.Path)
	if err != nil {
		return nil, &Error{Kind: KindFilesystem, Template: tmpl.Name, Path: file.Path, Err: err}
	}

	switch file.Mode {
	case templates.ModeCopy, templates.ModeRename:
		return data, nil
	case templates.ModeSubstitute:
		rendered, err := templates.Render(data, substitutions)
		if err != nil {
			var missing *templates.MissingPlaceholderError
			if errors.As(err, &missing) {
				return nil, &Error{
					Kind:        KindMissingSubstitution,
					Template:    tmpl.Name,
					Path:        file.Path,
					Placeholder: missing.Name,
					Err:         err,
				}
			}
			return nil, err
		}
		return rendered, nil
	default:
		return nil, fmt.Errorf("template %s: file %s: unknown mode %q", tmpl.Name, file.Path, file.Mode)
	}
}

func checkDestination(root string, overwrite bool) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fsError(root, err)
	}
	if !info.IsDir() {
		return fsError(root, errors.New("destination is not a directory"))
	}
	if overwrite {
		return nil
	}

	empty, err := dirIsEmpty(root)
	if err != nil {
		return fsError(root, err)
	}
	if !empty {
		return &Error{Kind: KindDestinationNotEmpty, Path: root}
	}
	return nil
}

func writeFile(target, resolvedRoot string, data []byte, perm fs.FileMode, overwrite bool) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := ensureResolvedWithin(dir, resolvedRoot); err != nil {
		return err
	}

	if perm == 0 {
		perm = 0o644
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		if info, err := os.Lstat(target); err == nil && info.Mode()&fs.ModeSymlink != 0 {
			return fmt.Errorf("refusing to write through symlink %s", target)
		}
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(target, flags, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if overwrite {
		return os.Chmod(target, perm)
	}
	return nil
}
