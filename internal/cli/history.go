package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nihi-lo/tempura/internal/db"
	"github.com/nihi-lo/tempura/internal/models"
	"github.com/nihi-lo/tempura/internal/tui/components"
)

var (
	historyTemplate string
	historyStatus   string
	historyLimit    int
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyCmd.Flags().StringVarP(&historyTemplate, "template", "t", "", "filter by template name")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "filter by status (succeeded, failed)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently created projects",
	Long:  "Show the most recent create runs recorded in the history database, newest first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := db.MaterializationQuery{
			Template: historyTemplate,
			Limit:    historyLimit,
		}
		switch models.MaterializationStatus(historyStatus) {
		case "":
		case models.MaterializationSucceeded, models.MaterializationFailed:
			query.Status = models.MaterializationStatus(historyStatus)
		default:
			return fmt.Errorf("invalid --status %q (want succeeded or failed)", historyStatus)
		}
		return runHistory(cmd.Context(), cmd.OutOrStdout(), query)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded create run",
	Long:  "Show a recorded create run by its ID or by the short ID printed by tempura history.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryShow(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

// historyPrefixScan bounds how many recent records a short ID is matched against.
const historyPrefixScan = 1000

func runHistoryShow(ctx context.Context, out io.Writer, id string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := requireHistory(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	repo := db.NewMaterializationRepository(database)
	rec, err := repo.Get(ctx, id)
	if errors.Is(err, db.ErrMaterializationNotFound) {
		rec, err = findByPrefix(ctx, repo, id)
	}
	if err != nil {
		if errors.Is(err, db.ErrMaterializationNotFound) {
			return &PreflightError{
				Message:  fmt.Sprintf("no history entry %q", id),
				NextStep: "tempura history",
				Err:      err,
			}
		}
		return fmt.Errorf("failed to load history entry: %w", err)
	}

	if IsJSONOutput() || IsJSONLOutput() {
		return WriteOutput(out, rec)
	}

	fmt.Fprintf(out, "ID:          %s\n", rec.ID)
	fmt.Fprintf(out, "Template:    %s\n", rec.Template)
	fmt.Fprintf(out, "Status:      %s\n", formatMaterializationStatus(rec.Status))
	fmt.Fprintf(out, "Destination: %s\n", rec.Destination)
	fmt.Fprintf(out, "Files:       %d\n", rec.FileCount)
	fmt.Fprintf(out, "Duration:    %s\n", formatDuration(rec.Duration))
	fmt.Fprintf(out, "Created:     %s\n", rec.CreatedAt.Local().Format(time.DateTime))
	if rec.Error != "" {
		fmt.Fprintf(out, "Error:       %s (%s)\n", rec.Error, rec.ErrorKind)
	}
	if len(rec.Variables) > 0 {
		keys := make([]string, 0, len(rec.Variables))
		for key := range rec.Variables {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fmt.Fprintln(out, "Variables:")
		for _, key := range keys {
			fmt.Fprintf(out, "  %s=%s\n", key, rec.Variables[key])
		}
	}
	return nil
}

func findByPrefix(ctx context.Context, repo *db.MaterializationRepository, prefix string) (*models.Materialization, error) {
	if prefix == "" {
		return nil, db.ErrMaterializationNotFound
	}
	records, err := repo.List(ctx, db.MaterializationQuery{Limit: historyPrefixScan})
	if err != nil {
		return nil, err
	}
	var match *models.Materialization
	for _, rec := range records {
		if !strings.HasPrefix(rec.ID, prefix) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("history id %q is ambiguous", prefix)
		}
		match = rec
	}
	if match == nil {
		return nil, db.ErrMaterializationNotFound
	}
	return match, nil
}

func runHistory(ctx context.Context, out io.Writer, query db.MaterializationQuery) error {
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := requireHistory(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := db.NewMaterializationRepository(database).List(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if IsJSONOutput() || IsJSONLOutput() {
		return WriteOutput(out, records)
	}

	if len(records) == 0 {
		empty := components.EmptyHistory()
		if query.Template != "" {
			empty = components.EmptyHistoryFiltered(query.Template)
		}
		fmt.Fprintln(out, empty.Render(currentStyles()))
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			shortID(rec.ID),
			rec.Template,
			formatMaterializationStatus(rec.Status),
			strconv.Itoa(rec.FileCount),
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.Destination,
		})
	}
	return writeTable(out, []string{"ID", "TEMPLATE", "STATUS", "FILES", "CREATED", "DESTINATION"}, rows)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func requireHistory(ctx context.Context) (*db.DB, error) {
	database, err := openHistory(ctx)
	if err != nil {
		return nil, err
	}
	if database == nil {
		return nil, &PreflightError{
			Message: "history is disabled",
			Hint:    "Set history.enabled: true in the config file and drop --no-history",
		}
	}
	return database, nil
}
