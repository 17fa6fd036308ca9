package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"subgen/internal/batch"
	"subgen/internal/history"
	"subgen/internal/services"
)

const maxErrorWidth = 60

func renderSummary(summary batch.Summary) string {
	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		rows = append(rows, []string{
			strconv.Itoa(result.Job.Index),
			result.Job.Name(),
			string(result.Status),
			strconv.Itoa(result.Blocks),
			formatDuration(result.Duration),
			describeError(result.Err),
		})
	}
	return renderTable(
		[]string{"#", "File", "Status", "Cues", "Time", "Error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func renderHistory(records []history.Record) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		outcome := string(rec.Status)
		if rec.ErrorKind != "" {
			outcome = fmt.Sprintf("%s (%s)", outcome, rec.ErrorKind)
		}
		rows = append(rows, []string{
			rec.FinishedAt.Local().Format("2006-01-02 15:04"),
			shortenPath(rec.InputPath),
			outcome,
			rec.Backend,
			strconv.Itoa(rec.Blocks),
			formatDuration(rec.Duration()),
		})
	}
	return renderTable(
		[]string{"Finished", "File", "Status", "Backend", "Cues", "Time"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}

func describeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if kind := services.Kind(err); kind != "" && kind != "unknown" {
		msg = kind + ": " + msg
	}
	return truncate(msg, maxErrorWidth)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func shortenPath(path string) string {
	parts := strings.Split(strings.ReplaceAll(path, "\\", "/"), "/")
	if len(parts) <= 2 {
		return path
	}
	return ".../" + strings.Join(parts[len(parts)-2:], "/")
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-3]) + "..."
}
