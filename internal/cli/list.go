package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nihi-lo/tempura/internal/templates"
	"github.com/nihi-lo/tempura/internal/tui/components"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available templates",
	Long: `List templates from every search path and the builtin set.

When two search paths hold a template with the same name, the earlier path wins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		return writeTemplateList(cmd.OutOrStdout(), catalog)
	},
}

type templateSummary struct {
	Name         string                  `json:"name"`
	Description  string                  `json:"description,omitempty"`
	Tags         []string                `json:"tags,omitempty"`
	Source       string                  `json:"source"`
	Placeholders []templates.Placeholder `json:"placeholders,omitempty"`
	Files        int                     `json:"files"`
}

func summarizeTemplate(tmpl *templates.Template) templateSummary {
	return templateSummary{
		Name:         tmpl.Name,
		Description:  tmpl.Description,
		Tags:         tmpl.Tags,
		Source:       tmpl.Source,
		Placeholders: tmpl.Placeholders,
		Files:        len(tmpl.Files),
	}
}

func writeTemplateList(out io.Writer, catalog *templates.Catalog) error {
	list := catalog.List()

	if IsJSONOutput() || IsJSONLOutput() {
		summaries := make([]templateSummary, 0, len(list))
		for _, tmpl := range list {
			summaries = append(summaries, summarizeTemplate(tmpl))
		}
		return WriteOutput(out, summaries)
	}

	if len(list) == 0 {
		styleSet := currentStyles()
		fmt.Fprintln(out, components.EmptyTemplates().Render(styleSet))
		fmt.Fprintln(out)
		fmt.Fprintln(out, styleSet.Muted.Render("Searched:"))
		for _, path := range searchPaths() {
			fmt.Fprintln(out, styleSet.Muted.Render("  "+path))
		}
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, tmpl := range list {
		names := make([]string, 0, len(tmpl.Placeholders))
		for _, p := range tmpl.Placeholders {
			name := p.Name
			if p.Required {
				name += "*"
			}
			names = append(names, name)
		}
		rows = append(rows, []string{
			tmpl.Name,
			tmpl.Source,
			joinNames(names),
			truncate(tmpl.Description, 60),
		})
	}
	return writeTable(out, []string{"NAME", "SOURCE", "PLACEHOLDERS", "DESCRIPTION"}, rows)
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, " ")
}
