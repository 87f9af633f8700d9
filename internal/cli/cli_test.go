package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nihi-lo/tempura/internal/config"
	"github.com/nihi-lo/tempura/internal/db"
	"github.com/nihi-lo/tempura/internal/materialize"
	"github.com/nihi-lo/tempura/internal/models"
	"github.com/nihi-lo/tempura/internal/templates"
	"github.com/nihi-lo/tempura/internal/tui"
)

// setupCLI isolates package state and returns the working directory.
func setupCLI(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	cwd := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	cfg := config.DefaultConfig()
	cfg.History.Path = filepath.Join(home, "history.db")

	prevConfig, prevGetwd, prevFlow, prevTTY := appConfig, getwdFunc, runCreateFlow, hasTTY
	prevNonInteractive, prevNoProgress := nonInteractive, noProgress
	prevJSON, prevJSONL := jsonOutput, jsonlOutput
	t.Cleanup(func() {
		appConfig, getwdFunc, runCreateFlow, hasTTY = prevConfig, prevGetwd, prevFlow, prevTTY
		nonInteractive, noProgress = prevNonInteractive, prevNoProgress
		jsonOutput, jsonlOutput = prevJSON, prevJSONL
	})

	appConfig = cfg
	getwdFunc = func() (string, error) { return cwd, nil }
	hasTTY = func() bool { return false }
	nonInteractive = true
	noProgress = true
	jsonOutput = false
	jsonlOutput = false
	return cwd
}

func TestParseVars(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    map[string]string
		wantErr bool
	}{
		{"single var", []string{"key=value"}, map[string]string{"key": "value"}, false},
		{"multiple vars", []string{"k1=v1", "k2=v2"}, map[string]string{"k1": "v1", "k2": "v2"}, false},
		{"comma separated", []string{"k1=v1,k2=v2"}, map[string]string{"k1": "v1", "k2": "v2"}, false},
		{"empty value", []string{"key="}, map[string]string{"key": ""}, false},
		{"value with equals", []string{"key=a=b"}, map[string]string{"key": "a=b"}, false},
		{"comma inside value", []string{"description=Landing page, with pricing"}, map[string]string{"description": "Landing page, with pricing"}, false},
		{"comma inside value then pair", []string{"description=a, b,license=MIT"}, map[string]string{"description": "a, b", "license": "MIT"}, false},
		{"missing equals", []string{"invalid"}, nil, true},
		{"leading segment without key", []string{"oops,k=v"}, nil, true},
		{"empty key", []string{"=value"}, nil, true},
		{"empty input", nil, map[string]string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVars(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"my-app", false},
		{"app2", false},
		{"my.app_v2~x", false},
		{"", true},
		{"My-App", true},
		{"my app", true},
		{"../escape", true},
		{"a/b", true},
		{".hidden", true},
		{"_private", true},
		{strings.Repeat("a", 215), true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validateProjectName(tt.input)
			require.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestRunCreateNonInteractive(t *testing.T) {
	cwd := setupCLI(t)
	dest := filepath.Join(cwd, "demo")

	var out, errOut bytes.Buffer
	err := runCreate(context.Background(), &out, &errOut, createOptions{
		Name:     "demo",
		Template: "nextjs-approuter-ts",
		Dir:      dest,
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Created demo")
	require.Contains(t, out.String(), "npm install")

	pkg, err := os.ReadFile(filepath.Join(dest, "package.json"))
	require.NoError(t, err)
	require.Contains(t, string(pkg), `"name": "demo"`)
	require.FileExists(t, filepath.Join(dest, ".gitignore"))
	require.NoFileExists(t, filepath.Join(dest, "gitignore"))
	require.FileExists(t, filepath.Join(dest, "src", "components", "HelloButton", "index.tsx"))

	database, err := db.Open(GetConfig().History.Path)
	require.NoError(t, err)
	defer database.Close()
	records, err := db.NewMaterializationRepository(database).List(context.Background(), db.MaterializationQuery{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, models.MaterializationSucceeded, records[0].Status)
	require.Equal(t, "demo", records[0].Variables["projectName"])
}

func TestRunCreateDefaultsTemplateAndDestination(t *testing.T) {
	cwd := setupCLI(t)
	GetConfig().History.Enabled = false

	var out, errOut bytes.Buffer
	require.NoError(t, runCreate(context.Background(), &out, &errOut, createOptions{Name: "site"}))

	require.FileExists(t, filepath.Join(cwd, "site", "index.html"))
	require.FileExists(t, filepath.Join(cwd, "site", "vite.config.ts"))
}

func TestRunCreateDescriptionWithComma(t *testing.T) {
	cwd := setupCLI(t)
	GetConfig().History.Enabled = false

	require.NoError(t, runCreate(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, createOptions{
		Name:     "landing",
		Template: "vite-react-tw-ts",
		Set:      []string{"description=Landing page, with pricing"},
	}))

	readme, err := os.ReadFile(filepath.Join(cwd, "landing", "README.md"))
	require.NoError(t, err)
	require.Contains(t, string(readme), "Landing page, with pricing")
}

func TestRunCreateRejectsQuoteInNextDescription(t *testing.T) {
	cwd := setupCLI(t)
	GetConfig().History.Enabled = false

	err := runCreate(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, createOptions{
		Name:     "quoted",
		Template: "nextjs-approuter-ts",
		Set:      []string{`description=The "best" app`},
	})
	var preflight *PreflightError
	require.ErrorAs(t, err, &preflight)
	var invalid *templates.InvalidPlaceholderError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "description", invalid.Name)
	require.NoDirExists(t, filepath.Join(cwd, "quoted"))
}

func TestRunCreateRequiresNameNonInteractive(t *testing.T) {
	setupCLI(t)

	err := runCreate(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, createOptions{Template: "vite-react-tw-ts"})
	var preflight *PreflightError
	require.ErrorAs(t, err, &preflight)
	require.Contains(t, preflight.Message, "project name is required")
}

func TestRunCreateUnknownTemplate(t *testing.T) {
	setupCLI(t)

	err := runCreate(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, createOptions{Name: "x", Template: "svelte"})
	var preflight *PreflightError
	require.ErrorAs(t, err, &preflight)
	require.ErrorIs(t, err, templates.ErrTemplateNotFound)
	require.Contains(t, preflight.Hint, "vite-react-tw-ts")
}

func TestRunCreateDestinationNotEmpty(t *testing.T) {
	cwd := setupCLI(t)
	dest := filepath.Join(cwd, "taken")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "keep.txt"), []byte("mine"), 0o644))

	err := runCreate(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, createOptions{
		Name:     "taken",
		Template: "vite-react-tw-ts",
	})
	require.ErrorIs(t, err, materialize.ErrDestinationNotEmpty)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	database, err := db.Open(GetConfig().History.Path)
	require.NoError(t, err)
	defer database.Close()
	records, err := db.NewMaterializationRepository(database).List(context.Background(), db.MaterializationQuery{
		Status: models.MaterializationFailed,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, string(materialize.KindDestinationNotEmpty), records[0].ErrorKind)
}

func TestRunCreateDryRunJSON(t *testing.T) {
	cwd := setupCLI(t)
	jsonOutput = true

	var out bytes.Buffer
	require.NoError(t, runCreate(context.Background(), &out, &bytes.Buffer{}, createOptions{
		Name:     "plan",
		Template: "vite-react-tw3-ts",
		DryRun:   true,
	}))

	var decoded createOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.True(t, decoded.DryRun)
	require.Contains(t, decoded.Files, ".gitignore")
	require.Equal(t, "plan", decoded.Variables["projectName"])
	require.NoDirExists(t, filepath.Join(cwd, "plan"))
}

func TestRunCreateInteractiveFlow(t *testing.T) {
	cwd := setupCLI(t)
	nonInteractive = false
	hasTTY = func() bool { return true }

	var got tui.FlowConfig
	runCreateFlow = func(cfg tui.FlowConfig) (tui.Selection, error) {
		got = cfg
		return tui.Selection{Template: "nextjs-approuter-ts", ProjectName: "picked"}, nil
	}

	require.NoError(t, runCreate(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, createOptions{}))
	require.Len(t, got.Templates, 3)
	require.Empty(t, got.Template)
	require.FileExists(t, filepath.Join(cwd, "picked", "src", "app", "page.tsx"))
}

func TestRunCreateFlowCanceled(t *testing.T) {
	cwd := setupCLI(t)

	runCreateFlow = func(cfg tui.FlowConfig) (tui.Selection, error) {
		return tui.Selection{Canceled: true}, nil
	}
	nonInteractive = false
	hasTTY = func() bool { return true }

	var errOut bytes.Buffer
	require.NoError(t, runCreate(context.Background(), &bytes.Buffer{}, &errOut, createOptions{}))
	require.Contains(t, errOut.String(), "no template was selected")

	entries, err := os.ReadDir(cwd)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRunCreateMissingSubstitution(t *testing.T) {
	cwd := setupCLI(t)
	GetConfig().History.Enabled = false

	tmplDir := filepath.Join(cwd, ".tempura", "templates", "strict")
	require.NoError(t, os.MkdirAll(tmplDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "template.yaml"), []byte(`placeholders:
  - name: projectName
    required: true
  - name: license
    required: true
files:
  - path: LICENSE
    mode: substitute
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "LICENSE"), []byte("{{license}}\n"), 0o644))

	err := runCreate(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, createOptions{Name: "lic", Template: "strict"})
	var preflight *PreflightError
	require.ErrorAs(t, err, &preflight)
	require.Contains(t, preflight.Message, "license")
	require.NoDirExists(t, filepath.Join(cwd, "lic"))

	require.NoError(t, runCreate(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, createOptions{
		Name:     "lic",
		Template: "strict",
		Set:      []string{"license=MIT"},
	}))
	data, err := os.ReadFile(filepath.Join(cwd, "lic", "LICENSE"))
	require.NoError(t, err)
	require.Equal(t, "MIT\n", string(data))
}

func TestRunHistory(t *testing.T) {
	setupCLI(t)

	var out bytes.Buffer
	require.NoError(t, runHistory(context.Background(), &out, db.MaterializationQuery{}))
	require.Contains(t, out.String(), "No projects created yet")

	require.NoError(t, runCreate(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, createOptions{
		Name:     "hist",
		Template: "vite-react-tw-ts",
	}))

	out.Reset()
	require.NoError(t, runHistory(context.Background(), &out, db.MaterializationQuery{}))
	require.Contains(t, out.String(), "vite-react-tw-ts")
	require.Contains(t, out.String(), "Created")

	out.Reset()
	require.NoError(t, runHistory(context.Background(), &out, db.MaterializationQuery{Template: "nextjs-approuter-ts"}))
	require.Contains(t, out.String(), "No history for template 'nextjs-approuter-ts'")
}

func TestRunHistoryShow(t *testing.T) {
	setupCLI(t)

	err := runHistoryShow(context.Background(), &bytes.Buffer{}, "deadbeef")
	var preflight *PreflightError
	require.ErrorAs(t, err, &preflight)
	require.ErrorIs(t, err, db.ErrMaterializationNotFound)

	require.NoError(t, runCreate(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, createOptions{
		Name:     "shown",
		Template: "vite-react-tw3-ts",
	}))

	database, err := db.Open(GetConfig().History.Path)
	require.NoError(t, err)
	records, err := db.NewMaterializationRepository(database).List(context.Background(), db.MaterializationQuery{})
	require.NoError(t, err)
	require.NoError(t, database.Close())
	require.Len(t, records, 1)
	id := records[0].ID

	var out bytes.Buffer
	require.NoError(t, runHistoryShow(context.Background(), &out, id))
	require.Contains(t, out.String(), "vite-react-tw3-ts")
	require.Contains(t, out.String(), "projectName=shown")

	out.Reset()
	require.NoError(t, runHistoryShow(context.Background(), &out, shortID(id)))
	require.Contains(t, out.String(), id)
}

func TestRunHistoryDisabled(t *testing.T) {
	setupCLI(t)
	GetConfig().History.Enabled = false

	err := runHistory(context.Background(), &bytes.Buffer{}, db.MaterializationQuery{})
	var preflight *PreflightError
	require.ErrorAs(t, err, &preflight)

	err = runHistoryShow(context.Background(), &bytes.Buffer{}, "any")
	require.ErrorAs(t, err, &preflight)
}

func TestWriteTemplateList(t *testing.T) {
	setupCLI(t)
	catalog, err := loadCatalog()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeTemplateList(&out, catalog))
	for _, name := range []string{"nextjs-approuter-ts", "vite-react-tw-ts", "vite-react-tw3-ts"} {
		require.Contains(t, out.String(), name)
	}
	require.Contains(t, out.String(), "projectName*")

	jsonOutput = true
	out.Reset()
	require.NoError(t, writeTemplateList(&out, catalog))
	var summaries []templateSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summaries))
	require.Len(t, summaries, 3)
	require.Equal(t, templates.BuiltinSource, summaries[0].Source)
}

func TestWriteTemplateListEmpty(t *testing.T) {
	setupCLI(t)

	var out bytes.Buffer
	require.NoError(t, writeTemplateList(&out, templates.NewCatalog()))
	require.Contains(t, out.String(), "No templates found")
	require.Contains(t, out.String(), "Searched:")
}

func TestWriteTemplateDetail(t *testing.T) {
	setupCLI(t)
	catalog, err := loadCatalog()
	require.NoError(t, err)
	tmpl, err := catalog.Lookup("vite-react-tw-ts")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeTemplateDetail(&out, tmpl))
	require.Contains(t, out.String(), "gitignore")
	require.Contains(t, out.String(), ".gitignore")
	require.Contains(t, out.String(), "substitute")
	require.Contains(t, out.String(), "template.yaml (manifest)")
}

func TestWriteOutputJSONL(t *testing.T) {
	setupCLI(t)
	jsonlOutput = true

	var out bytes.Buffer
	require.NoError(t, WriteOutput(&out, []initResult{
		{Step: "a", Status: initDone},
		{Step: "b", Status: initSkipped},
	}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[1], `"step":"b"`)
}

func TestPrintError(t *testing.T) {
	var out bytes.Buffer
	printError(&out, &PreflightError{Message: "boom", Hint: "try again", NextStep: "tempura list"})
	require.Equal(t, "Error: boom\nHint: try again\nNext: tempura list\n", out.String())

	out.Reset()
	printError(&out, errors.New("plain"))
	require.Equal(t, "Error: plain\n", out.String())
}
