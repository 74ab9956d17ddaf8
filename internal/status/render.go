package status

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func styled(s State) string {
	switch s {
	case StateOK:
		return okStyle.Render(string(s))
	case StateFail:
		return failStyle.Render(string(s))
	default:
		return warnStyle.Render(string(s))
	}
}

// Render writes the report in the line format of the status command.
func Render(w io.Writer, r *Report) error {
	lines := []string{
		"anchore_db: " + styled(r.Database),
		"anchore_feeds: " + styled(r.Feeds),
		"analyzer_status: " + styled(r.Analyzer),
	}
	if r.Analyzer == StateFail {
		lines = append(lines, "\timageId: "+r.FailedImage)
	}
	if r.Analyzer != StateNoData {
		lines = append(lines, "analyzer_latest_run: "+r.Latest.Format(time.ANSIC))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
