package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/teranos/wmsnav/logger"
	"github.com/teranos/wmsnav/sym"
	"github.com/teranos/wmsnav/version"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(w io.Writer, verbosity, port int, dbPath string) {
	versionInfo := version.Get()

	title := pterm.DefaultHeader.
		WithFullWidth(false).
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack, pterm.Bold)).
		Sprint(sym.Route + " wmsnav · warehouse navigation")
	fmt.Fprintln(w, title)

	info := pterm.TableData{
		{"Version", fmt.Sprintf("%s (commit %s)", versionInfo.Version, versionInfo.Short())},
		{"Built", versionInfo.BuildTime},
		{"Verbosity", logger.LevelName(verbosity)},
		{"Listening", fmt.Sprintf("http://localhost:%d", port)},
		{"Navigate", fmt.Sprintf("http://localhost:%d/wms?tab=dashboard", port)},
	}
	if dbPath != "" {
		info = append(info, []string{"Database", sym.DB + " " + dbPath})
	}
	pterm.DefaultTable.WithData(info).WithWriter(w).Render()

	fmt.Fprintf(w, "\n%s Press Ctrl+C to stop\n\n", sym.Close)
}
