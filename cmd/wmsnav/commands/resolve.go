package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/wmsnav/display"
	"github.com/teranos/wmsnav/sym"
	"github.com/teranos/wmsnav/wms/persona"
	"github.com/teranos/wmsnav/wms/tab"
	"github.com/teranos/wmsnav/wms/telemetry"
	"github.com/teranos/wmsnav/wms/view"
)

// ResolveCmd resolves a raw tab value offline
var ResolveCmd = &cobra.Command{
	Use:   "resolve [tab]",
	Short: sym.Route + " Resolve a raw tab value to a canonical tab and view",
	Long: sym.Route + ` resolve - Run a raw tab value through normalization, redirects and the
persona overlay gate without starting the server.

With no argument the tab is treated as absent and falls back to the dashboard.

Examples:
  wmsnav resolve Recepción           # accent stripped, redirected
  wmsnav resolve "  PICKING "        # direct match after normalization
  wmsnav resolve foo --json          # invalid tab as JSON
  wmsnav resolve --persona operador --trace`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

var (
	resolvePersona string
	resolveTrace   bool
)

func init() {
	ResolveCmd.Flags().StringVar(&resolvePersona, "persona", string(persona.Default), "Persona to evaluate the overlay for")
	ResolveCmd.Flags().BoolVar(&resolveTrace, "trace", false, "Print the telemetry records the resolution produced")
}

// resolveReport is everything one offline resolution produced
type resolveReport struct {
	Resolution tab.Resolution           `json:"resolution"`
	View       view.View                `json:"view"`
	Overlay    persona.Decision         `json:"overlay"`
	State      persona.SharedState      `json:"state"`
	Routes     []telemetry.RouteEvent   `json:"routes,omitempty"`
	Overlays   []telemetry.OverlayEvent `json:"overlays,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	raw := ""
	if len(args) == 1 {
		raw = args[0]
	}

	p, err := persona.Parse(resolvePersona)
	if err != nil {
		return err
	}

	report, err := resolveOffline(cmd, raw, p)
	if err != nil {
		return err
	}
	if !resolveTrace {
		report.Routes, report.Overlays = nil, nil
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, report)
	}
	return printResolveReport(out, report)
}

func resolveOffline(cmd *cobra.Command, raw string, p persona.Persona) (resolveReport, error) {
	ctx := cmd.Context()
	rec := telemetry.NewRecorder()
	clock := time.Now

	res := tab.NewResolver(rec, clock).Resolve(ctx, raw)
	v, err := view.For(res.Resolved)
	if err != nil {
		return resolveReport{}, err
	}

	state := persona.SharedState{Filters: map[string]string{}}
	decision := persona.NewGate(rec, clock).Evaluate(ctx, &state, p, res.Resolved)

	return resolveReport{
		Resolution: res,
		View:       v,
		Overlay:    decision,
		State:      state,
		Routes:     rec.Routes(),
		Overlays:   rec.Overlays(),
	}, nil
}

func printResolveReport(w io.Writer, r resolveReport) error {
	marker := sym.Route
	switch {
	case r.Resolution.Resolved.IsInvalid():
		marker = sym.Invalid
	case r.Resolution.Redirected():
		marker = sym.Redirect
	}

	data := pterm.TableData{
		{"FIELD", "VALUE"},
		{"incoming", fmt.Sprintf("%q", r.Resolution.Incoming)},
		{"normalized", fmt.Sprintf("%q", r.Resolution.Normalized)},
		{"resolved", marker + " " + r.Resolution.Resolved.String()},
		{"reason", string(r.Resolution.Reason)},
		{"view", r.View.Component},
		{"title", r.View.Title},
		{"persona", r.Overlay.Persona.String()},
		{"overlay", sym.Overlay + " " + r.Overlay.Action},
	}
	if r.Overlay.Applied() {
		data = append(data,
			[]string{"filters", formatFilters(r.State.Filters)},
			[]string{"active sub-tab", r.State.ActiveSubTab},
		)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render(); err != nil {
		return err
	}

	if r.View.Kind == view.KindUnknownTab {
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.View.Message)
		for _, l := range r.View.ValidTabs {
			fmt.Fprintf(w, "  %-14s %s\n", l.Label, l.Href)
		}
	}

	if len(r.Routes) > 0 || len(r.Overlays) > 0 {
		fmt.Fprintln(w)
		for _, ev := range r.Routes {
			fmt.Fprintf(w, "route   incoming=%q normalized=%q resolved=%s reason=%s\n",
				ev.Incoming, ev.Normalized, ev.Resolved, ev.Reason)
		}
		for _, ev := range r.Overlays {
			fmt.Fprintf(w, "overlay persona=%s submodule=%s hasOverlay=%t action=%s\n",
				ev.Persona, ev.Submodule, ev.HasOverlay, ev.Action)
		}
	}
	return nil
}

func formatFilters(filters map[string]string) string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+filters[k])
	}
	return strings.Join(parts, " ")
}
