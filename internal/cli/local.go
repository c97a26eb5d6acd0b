package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/studiowebux/sihui/internal/analytics"
	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/history"
)

// ErrRequestLogDisabled is returned by the local log commands when history_enabled is off
var ErrRequestLogDisabled = errors.New("request log is disabled (history_enabled: false)")

// ShowHistory prints the newest logged exchanges, or clears the log
func (a *App) ShowHistory(limit int, clearLog bool) error {
	if a.History == nil {
		return ErrRequestLogDisabled
	}

	if clearLog {
		if err := a.History.Clear(); err != nil {
			return err
		}
		if a.Analytics != nil {
			if err := a.Analytics.Clear(); err != nil {
				return err
			}
		}
		a.Printer.Success("Request log cleared")
		return nil
	}

	entries, err := a.History.Load(limit)
	if err != nil {
		return err
	}

	if a.Printer.Format() != FormatText {
		return a.Printer.Print(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, mutedStyle.Render("No requests logged yet"))
		return nil
	}
	for _, e := range entries {
		status := strconv.Itoa(e.Status)
		if e.Status == 0 {
			status = "ERR"
		}
		style := statusStyle(client.IsSuccessStatus(e.Status), e.Status > 0 && e.Status < 400)
		line := fmt.Sprintf("%s %s %-6s %s %s",
			mutedStyle.Render(history.ParseTimestamp(e.Timestamp).Local().Format("2006-01-02 15:04:05")),
			style.Render(fmt.Sprintf("%3s", status)),
			e.Method,
			e.Endpoint,
			mutedStyle.Render(client.FormatDuration(e.DurationMs)),
		)
		if e.Error != "" {
			line += " " + errorStyle.Render(e.Error)
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

// ShowStats prints per-endpoint aggregates for the current backend, or every backend when all is set
func (a *App) ShowStats(all bool) error {
	if a.Analytics == nil {
		return ErrRequestLogDisabled
	}

	host := ""
	if !all {
		host = history.HostOf(a.Client.BaseURL())
	}

	stats, err := a.Analytics.GetStats(host)
	if err != nil {
		return err
	}

	if a.Printer.Format() != FormatText {
		return a.Printer.Print(stats)
	}

	if len(stats) == 0 {
		fmt.Fprintln(a.out, mutedStyle.Render("No requests logged yet"))
		return nil
	}
	for _, s := range stats {
		rate := s.SuccessRate()
		style := statusStyle(rate >= 0.99, rate >= 0.9)
		fmt.Fprintf(a.out, "%-6s %s\n", labelStyle.Render(s.Method), s.NormalizedEndpoint)
		fmt.Fprintf(a.out, "       calls %d  ok %s  avg %s  min %s  max %s  codes %s\n",
			s.TotalCalls,
			style.Render(fmt.Sprintf("%.0f%%", rate*100)),
			client.FormatDuration(int64(s.AvgDurationMs)),
			client.FormatDuration(s.MinDurationMs),
			client.FormatDuration(s.MaxDurationMs),
			formatStatusCodes(s),
		)
	}
	return nil
}

func formatStatusCodes(s analytics.Stats) string {
	parts := make([]string, 0, len(s.StatusCodes))
	for _, code := range analytics.SortedStatusCodes(s) {
		label := strconv.Itoa(code)
		if code == 0 {
			label = "ERR"
		}
		parts = append(parts, fmt.Sprintf("%s×%d", label, s.StatusCodes[code]))
	}
	return strings.Join(parts, " ")
}
