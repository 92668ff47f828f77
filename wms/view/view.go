// Package view maps a resolved tab to the descriptor of the view that renders
// it. The views themselves (tables, forms, charts) live in the front end; this
// package only decides which one is shown and what the unknown-tab page lists.
package view

import (
	"net/url"

	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/wms/tab"
)

// Kind distinguishes regular module views from the unknown-tab page.
type Kind string

const (
	KindModule     Kind = "module"
	KindUnknownTab Kind = "unknown_tab"
)

// Link is a navigation target offered by a view.
type Link struct {
	Tab   tab.Tab `json:"tab"`
	Label string  `json:"label"`
	Href  string  `json:"href"`
}

// View describes what the front end renders for a resolved tab.
type View struct {
	Kind      Kind    `json:"kind"`
	Tab       tab.Tab `json:"tab"`
	Title     string  `json:"title"`
	Component string  `json:"component"`
	Message   string  `json:"message,omitempty"`
	ValidTabs []Link  `json:"validTabs,omitempty"`
	Recovery  *Link   `json:"recovery,omitempty"`
}

// Href builds the navigation reference for t.
func Href(t tab.Tab) string {
	return "/wms?" + url.Values{"tab": {t.String()}}.Encode()
}

// Label returns the Spanish display label of a canonical tab.
func Label(t tab.Tab) string {
	switch t {
	case tab.Dashboard:
		return "Dashboard"
	case tab.Recepciones:
		return "Recepciones"
	case tab.Inventario:
		return "Inventario"
	case tab.Ubicaciones:
		return "Ubicaciones"
	case tab.Picking:
		return "Picking"
	case tab.Packing:
		return "Packing"
	case tab.CrossDock:
		return "Cross-Dock"
	case tab.Discrepancias:
		return "Discrepancias"
	}
	return t.String()
}

// For returns the view for a resolved tab. Every canonical tab and Invalid
// has a view; any other value is a contract violation.
func For(t tab.Tab) (View, error) {
	switch t {
	case tab.Dashboard:
		return module(t, "WarehouseDashboard"), nil
	case tab.Recepciones:
		return module(t, "ReceiptsView"), nil
	case tab.Inventario:
		return module(t, "InventoryView"), nil
	case tab.Ubicaciones:
		return module(t, "LocationsView"), nil
	case tab.Picking:
		return module(t, "PickingView"), nil
	case tab.Packing:
		return module(t, "PackingView"), nil
	case tab.CrossDock:
		return module(t, "CrossDockView"), nil
	case tab.Discrepancias:
		return module(t, "DiscrepanciesView"), nil
	case tab.Invalid:
		return unknownTab(), nil
	}
	return View{}, errors.Wrapf(errors.ErrContractViolation, "no view for tab %q", t)
}

func module(t tab.Tab, component string) View {
	return View{
		Kind:      KindModule,
		Tab:       t,
		Title:     "WMS · " + Label(t),
		Component: component,
	}
}

func unknownTab() View {
	links := make([]Link, 0, len(tab.Canonical()))
	for _, t := range tab.Canonical() {
		links = append(links, Link{Tab: t, Label: Label(t), Href: Href(t)})
	}
	return View{
		Kind:      KindUnknownTab,
		Tab:       tab.Invalid,
		Title:     "Pestaña desconocida",
		Component: "UnknownTabView",
		Message:   "La pestaña solicitada no existe. Pestañas válidas:",
		ValidTabs: links,
		Recovery:  &Link{Tab: tab.Dashboard, Label: "Volver al Dashboard", Href: Href(tab.Dashboard)},
	}
}
