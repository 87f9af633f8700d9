package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nihi-lo/tempura/internal/tui/styles"
)

// progressStep prints "<label>... <status>" on one line around a unit of work.
type progressStep struct {
	out     io.Writer
	styles  styles.Styles
	started time.Time
}

func startProgress(out io.Writer, label string) *progressStep {
	if !progressEnabled() {
		return nil
	}
	step := &progressStep{out: out, styles: currentStyles(), started: time.Now()}
	fmt.Fprint(out, step.styles.Muted.Render(label+"..."), " ")
	return step
}

// Done ends the step; detail, when set, is shown next to the elapsed time.
func (p *progressStep) Done(detail string) {
	if p == nil {
		return
	}
	elapsed := formatDuration(time.Since(p.started))
	if detail != "" {
		elapsed = detail + ", " + elapsed
	}
	fmt.Fprintf(p.out, "%s (%s)\n", p.styles.Success.Render("done"), elapsed)
}

// Fail ends the step. The error itself is reported by the caller.
func (p *progressStep) Fail() {
	if p == nil {
		return
	}
	fmt.Fprintln(p.out, p.styles.Error.Render("failed"))
}

func progressEnabled() bool {
	if noProgress || IsJSONOutput() || IsJSONLOutput() {
		return false
	}
	for _, key := range []string{"TEMPURA_NO_PROGRESS", "NO_PROGRESS"} {
		if _, ok := os.LookupEnv(key); ok {
			return false
		}
	}
	return true
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
