package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nihi-lo/tempura/internal/db"
	"github.com/nihi-lo/tempura/internal/logging"
	"github.com/nihi-lo/tempura/internal/materialize"
	"github.com/nihi-lo/tempura/internal/models"
	"github.com/nihi-lo/tempura/internal/templates"
	"github.com/nihi-lo/tempura/internal/tui"
	"github.com/nihi-lo/tempura/internal/tui/components"
)

const projectNameKey = "projectName"

var (
	createTemplate  string
	createDir       string
	createSet       []string
	createOverwrite bool
	createDryRun    bool
)

// runCreateFlow is replaced in tests.
var runCreateFlow = tui.RunCreateFlow

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVarP(&createTemplate, "template", "t", "", "template name (see tempura list)")
	createCmd.Flags().StringVarP(&createDir, "dir", "d", "", "destination directory (default: ./<name>)")
	createCmd.Flags().StringArrayVar(&createSet, "set", nil, "placeholder value key=value (repeatable, comma separated)")
	createCmd.Flags().BoolVar(&createOverwrite, "overwrite", false, "write into a non-empty destination, replacing existing files")
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false, "show the files that would be written without writing them")
}

var createCmd = &cobra.Command{
	Use:     "create [name]",
	Aliases: []string{"c"},
	Short:   "Create a project from a template",
	Long: `Create a new project directory from a template.

The project name fills the projectName placeholder and, unless --dir is given,
names the destination directory. Missing template or name are asked for
interactively when a terminal is attached.`,
	Example: `  # Pick a template and name interactively
  tempura create

  # Fully non-interactive
  tempura create my-app --template nextjs-approuter-ts

  # Extra placeholder values
  tempura create my-app -t vite-react-tw-ts --set description="Landing page"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := createOptions{
			Template:  createTemplate,
			Dir:       createDir,
			Set:       createSet,
			Overwrite: GetConfig().Create.Overwrite,
			DryRun:    createDryRun,
		}
		if cmd.Flags().Changed("overwrite") {
			opts.Overwrite = createOverwrite
		}
		if len(args) > 0 {
			opts.Name = args[0]
		}
		return runCreate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
	},
}

type createOptions struct {
	Name      string
	Template  string
	Dir       string
	Set       []string
	Overwrite bool
	DryRun    bool
}

type createOutput struct {
	ID          string             `json:"id"`
	Template    string             `json:"template"`
	Destination string             `json:"destination"`
	Files       []string           `json:"files"`
	Skipped     []materialize.Skip `json:"skipped,omitempty"`
	Variables   map[string]string  `json:"variables"`
	DryRun      bool               `json:"dry_run"`
	DurationMS  int64              `json:"duration_ms"`
}

func runCreate(ctx context.Context, out, errOut io.Writer, opts createOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := GetConfig()

	vars, err := parseVars(opts.Set)
	if err != nil {
		return err
	}
	if opts.Name == "" {
		opts.Name = vars[projectNameKey]
	}

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	if opts.Template == "" || opts.Name == "" {
		if IsInteractive() {
			sel, err := runCreateFlow(tui.FlowConfig{
				Templates:    templateItems(catalog),
				Theme:        cfg.TUI.Theme,
				Template:     opts.Template,
				ProjectName:  opts.Name,
				ValidateName: validateProjectName,
			})
			if err != nil {
				if errors.Is(err, tui.ErrNoTemplates) {
					fmt.Fprintln(errOut, components.EmptyTemplates().Render(currentStyles()))
				}
				return err
			}
			if sel.Canceled {
				fmt.Fprintln(errOut, components.NoTemplateSelected().RenderCompact(currentStyles()))
				return nil
			}
			opts.Template = sel.Template
			opts.Name = sel.ProjectName
		} else {
			if opts.Template == "" {
				opts.Template = cfg.Templates.Default
			}
			if opts.Name == "" {
				return &PreflightError{
					Message:  "project name is required in non-interactive mode",
					Hint:     "Pass the name as an argument",
					NextStep: "tempura create <name> --template " + opts.Template,
				}
			}
		}
	}

	if err := validateProjectName(opts.Name); err != nil {
		return &PreflightError{
			Message: err.Error(),
			Hint:    "Use lowercase letters, digits and hyphens, e.g. my-app",
			Err:     err,
		}
	}
	vars[projectNameKey] = opts.Name

	tmpl, err := catalog.Lookup(opts.Template)
	if err != nil {
		return &PreflightError{
			Message:  fmt.Sprintf("unknown template %q", opts.Template),
			Hint:     "Available templates: " + joinNames(catalog.Names()),
			NextStep: "tempura list",
			Err:      err,
		}
	}
	vars = templates.ApplyDefaults(tmpl, vars)
	if missing := templates.MissingPlaceholders(tmpl, vars); len(missing) > 0 {
		return &PreflightError{
			Message:  fmt.Sprintf("template %s requires values for: %s", tmpl.Name, joinNames(missing)),
			Hint:     "Supply them with --set key=value",
			NextStep: "tempura show " + tmpl.Name,
		}
	}
	if err := templates.CheckPlaceholders(tmpl, vars); err != nil {
		return &PreflightError{
			Message:  err.Error(),
			Hint:     "Choose a value the template accepts",
			NextStep: "tempura show " + tmpl.Name,
			Err:      err,
		}
	}

	dest := opts.Dir
	if dest == "" {
		dest = opts.Name
	}
	if !filepath.IsAbs(dest) {
		cwd, err := getwdFunc()
		if err != nil {
			return fmt.Errorf("failed to resolve destination: %w", err)
		}
		dest = filepath.Join(cwd, dest)
	}

	materializer := materialize.New(catalog, logging.Component("materialize"))
	label := "Creating " + opts.Name
	if opts.DryRun {
		label = "Planning " + opts.Name
	}

	started := time.Now()
	step := startProgress(errOut, label)
	result, err := materializer.Materialize(tmpl.Name, dest, vars, materialize.Options{
		Overwrite: opts.Overwrite,
		DryRun:    opts.DryRun,
	})
	if err != nil {
		step.Fail()
		if !opts.DryRun {
			recordHistory(ctx, failedRecord(tmpl.Name, dest, vars, err, time.Since(started)))
		}
		return createError(err)
	}
	step.Done(fmt.Sprintf("%d files", len(result.Written)))

	if !opts.DryRun {
		recordHistory(ctx, &models.Materialization{
			ID:          result.ID,
			Template:    result.Template,
			Destination: result.Destination,
			Status:      models.MaterializationSucceeded,
			FileCount:   len(result.Written),
			Variables:   vars,
			Duration:    result.Duration,
		})
	}

	if IsJSONOutput() || IsJSONLOutput() {
		return WriteOutput(out, createOutput{
			ID:          result.ID,
			Template:    result.Template,
			Destination: result.Destination,
			Files:       result.Written,
			Skipped:     result.Skipped,
			Variables:   vars,
			DryRun:      result.DryRun,
			DurationMS:  result.Duration.Milliseconds(),
		})
	}

	return printCreateResult(out, result, opts)
}

func printCreateResult(out io.Writer, result *materialize.Result, opts createOptions) error {
	styleSet := currentStyles()
	if result.DryRun {
		fmt.Fprintf(out, "Would create %s from %s:\n", result.Destination, result.Template)
		for _, path := range result.Written {
			fmt.Fprintf(out, "  %s\n", path)
		}
		return nil
	}

	fmt.Fprintln(out, styleSet.Success.Render(fmt.Sprintf("Created %s", opts.Name)))
	fmt.Fprintf(out, "  Template:    %s\n", result.Template)
	fmt.Fprintf(out, "  Destination: %s\n", result.Destination)
	fmt.Fprintf(out, "  Files:       %d\n", len(result.Written))

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  cd %s\n", relativeToCwd(result.Destination))
	fmt.Fprintln(out, "  npm install")
	return nil
}

func createError(err error) error {
	switch materialize.KindOf(err) {
	case materialize.KindDestinationNotEmpty:
		return &PreflightError{
			Message: err.Error(),
			Hint:    "Choose another --dir or pass --overwrite to replace existing files",
			Err:     err,
		}
	case materialize.KindMissingSubstitution:
		return &PreflightError{
			Message: err.Error(),
			Hint:    "Supply the value with --set key=value; files written before the failure were left in place",
			Err:     err,
		}
	}
	return fmt.Errorf("failed to create project: %w", err)
}

func failedRecord(template, dest string, vars map[string]string, err error, elapsed time.Duration) *models.Materialization {
	return &models.Materialization{
		Template:    template,
		Destination: dest,
		Status:      models.MaterializationFailed,
		ErrorKind:   string(materialize.KindOf(err)),
		Error:       err.Error(),
		Variables:   vars,
		Duration:    elapsed,
	}
}

// recordHistory stores rec. Failures are logged and never fail the command.
func recordHistory(ctx context.Context, rec *models.Materialization) {
	database, err := openHistory(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("history unavailable")
		return
	}
	if database == nil {
		return
	}
	defer database.Close()

	if err := db.NewMaterializationRepository(database).Create(ctx, rec); err != nil {
		logger.Warn().Err(err).Str("template", rec.Template).Msg("failed to record history")
		return
	}
	logger.Debug().Str("id", rec.ID).Str("status", string(rec.Status)).Msg("recorded history")
}

func templateItems(catalog *templates.Catalog) []tui.TemplateItem {
	list := catalog.List()
	items := make([]tui.TemplateItem, 0, len(list))
	for _, tmpl := range list {
		items = append(items, tui.TemplateItem{
			Name:    tmpl.Name,
			Summary: tmpl.Description,
			Source:  tmpl.Source,
		})
	}
	return items
}

func relativeToCwd(path string) string {
	cwd, err := getwdFunc()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
