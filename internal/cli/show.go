package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nihi-lo/tempura/internal/templates"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <template>",
	Short: "Show a template's files and placeholders",
	Long: `Show how a template materializes: each file with its mode and output path,
the placeholders it declares, and entries that are never written.`,
	Example: `  tempura show nextjs-approuter-ts
  tempura show vite-react-tw-ts --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		tmpl, err := catalog.Lookup(args[0])
		if err != nil {
			return &PreflightError{
				Message:  fmt.Sprintf("unknown template %q", args[0]),
				Hint:     "Available templates: " + joinNames(catalog.Names()),
				NextStep: "tempura list",
				Err:      err,
			}
		}
		return writeTemplateDetail(cmd.OutOrStdout(), tmpl)
	},
}

type templateFileView struct {
	Path   string         `json:"path"`
	Mode   templates.Mode `json:"mode"`
	Output string         `json:"output"`
}

type templateDetail struct {
	templateSummary
	FileList []templateFileView      `json:"file_list"`
	Ignored  []templates.IgnoredFile `json:"ignored,omitempty"`
}

func writeTemplateDetail(out io.Writer, tmpl *templates.Template) error {
	detail := templateDetail{templateSummary: summarizeTemplate(tmpl)}
	for _, f := range tmpl.Files {
		detail.FileList = append(detail.FileList, templateFileView{
			Path:   f.Path,
			Mode:   f.Mode,
			Output: f.OutputPath(),
		})
	}
	detail.Ignored = tmpl.Ignored

	if IsJSONOutput() || IsJSONLOutput() {
		return WriteOutput(out, detail)
	}

	styleSet := currentStyles()
	fmt.Fprintln(out, styleSet.Title.Render(tmpl.Name))
	if tmpl.Description != "" {
		fmt.Fprintf(out, "  %s\n", tmpl.Description)
	}
	fmt.Fprintf(out, "  Source: %s\n", tmpl.Source)
	fmt.Fprintf(out, "  Tags:   %s\n", formatTags(tmpl.Tags))

	if len(tmpl.Placeholders) > 0 {
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(tmpl.Placeholders))
		for _, p := range tmpl.Placeholders {
			def := p.Default
			if def == "" {
				def = "-"
			}
			rows = append(rows, []string{p.Name, formatYesNo(p.Required), def, p.Description})
		}
		if err := writeTable(out, []string{"PLACEHOLDER", "REQUIRED", "DEFAULT", "DESCRIPTION"}, rows); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	rows := make([][]string, 0, len(detail.FileList))
	for _, f := range detail.FileList {
		output := f.Output
		if output == f.Path {
			output = "-"
		}
		rows = append(rows, []string{f.Path, formatMode(f.Mode), output})
	}
	if err := writeTable(out, []string{"FILE", "MODE", "WRITTEN AS"}, rows); err != nil {
		return err
	}

	if len(tmpl.Ignored) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styleSet.Muted.Render("Not materialized:"))
		for _, ignored := range tmpl.Ignored {
			fmt.Fprintln(out, styleSet.Muted.Render(fmt.Sprintf("  %s (%s)", ignored.Path, ignored.Reason)))
		}
	}
	return nil
}

func formatYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
