package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nihi-lo/tempura/internal/config"
)

var (
	initForce bool

	// configDirFunc is replaced in tests.
	configDirFunc = config.DefaultConfigDir
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a commented default config file to ~/.config/tempura/config.yaml
(or $XDG_CONFIG_HOME/tempura/config.yaml) and create the user template directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results := []initResult{createConfigFile(), createTemplateDir()}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), results)
		}
		printInitResults(cmd.OutOrStdout(), results)
		for _, r := range results {
			if r.Status == initFailed {
				return errors.New(r.Message)
			}
		}
		return nil
	},
}

const (
	initDone    = "done"
	initSkipped = "skipped"
	initFailed  = "failed"
)

type initResult struct {
	Step    string `json:"step"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func createConfigFile() initResult {
	result := initResult{Step: "config"}
	dir := configDirFunc()
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil && !initForce {
		result.Status = initSkipped
		result.Message = fmt.Sprintf("%s already exists (use --force to replace it)", path)
		return result
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		result.Status = initFailed
		result.Message = fmt.Sprintf("failed to check %s: %v", path, err)
		return result
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.Status = initFailed
		result.Message = fmt.Sprintf("failed to create %s: %v", dir, err)
		return result
	}
	if err := os.WriteFile(path, []byte(config.FileTemplate), 0o644); err != nil {
		result.Status = initFailed
		result.Message = fmt.Sprintf("failed to write %s: %v", path, err)
		return result
	}

	result.Status = initDone
	result.Message = "wrote " + path
	return result
}

func createTemplateDir() initResult {
	result := initResult{Step: "templates"}
	dir := filepath.Join(configDirFunc(), "templates")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.Status = initFailed
		result.Message = fmt.Sprintf("failed to create %s: %v", dir, err)
		return result
	}
	result.Status = initDone
	result.Message = "template directory " + dir
	return result
}

func printInitResults(out io.Writer, results []initResult) {
	styleSet := currentStyles()
	for _, r := range results {
		var status string
		switch r.Status {
		case initDone:
			status = styleSet.Success.Render("[done]")
		case initSkipped:
			status = styleSet.Warning.Render("[skip]")
		default:
			status = styleSet.Error.Render("[fail]")
		}
		fmt.Fprintf(out, "%s %s\n", status, r.Message)
	}
}
