package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/nihi-lo/tempura/internal/db"
	"github.com/nihi-lo/tempura/internal/templates"
	"github.com/nihi-lo/tempura/internal/tui/styles"
)

// getwdFunc is replaced in tests.
var getwdFunc = os.Getwd

func loadCatalog() (*templates.Catalog, error) {
	cwd, err := getwdFunc()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	catalog, err := templates.LoadCatalog(cwd, GetConfig().Templates.Dirs...)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return catalog, nil
}

func searchPaths() []string {
	cwd, err := getwdFunc()
	if err != nil {
		cwd = ""
	}
	return templates.TemplateSearchPaths(cwd, GetConfig().Templates.Dirs...)
}

// openHistory opens the history database, or returns nil when history is disabled.
func openHistory(ctx context.Context) (*db.DB, error) {
	cfg := GetConfig()
	if !cfg.History.Enabled {
		return nil, nil
	}

	database, err := db.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := database.MigrateUp(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return database, nil
}

func currentStyles() styles.Styles {
	return styles.BuildStyles(styles.ThemeByName(GetConfig().TUI.Theme))
}
