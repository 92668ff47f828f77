package commands

import (
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/wmsnav/display"
	"github.com/teranos/wmsnav/sym"
	"github.com/teranos/wmsnav/wms/tab"
	"github.com/teranos/wmsnav/wms/view"
)

// TabsCmd lists canonical tabs and redirect aliases
var TabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "List canonical warehouse tabs and their redirect aliases",
	RunE:  runTabs,
}

type tabsListing struct {
	Tabs      []view.Link   `json:"tabs"`
	Redirects []redirectRow `json:"redirects"`
}

type redirectRow struct {
	Alias      string  `json:"alias"`
	Normalized string  `json:"normalized"`
	Target     tab.Tab `json:"target"`
}

func listTabs() tabsListing {
	var listing tabsListing
	for _, t := range tab.Canonical() {
		listing.Tabs = append(listing.Tabs, view.Link{Tab: t, Label: view.Label(t), Href: view.Href(t)})
	}

	for alias, target := range tab.Redirects() {
		listing.Redirects = append(listing.Redirects, redirectRow{
			Alias:      alias,
			Normalized: tab.Normalize(alias),
			Target:     target,
		})
	}
	sort.Slice(listing.Redirects, func(i, j int) bool {
		a, b := listing.Redirects[i], listing.Redirects[j]
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Alias < b.Alias
	})
	return listing
}

func runTabs(cmd *cobra.Command, args []string) error {
	listing := listTabs()
	out := cmd.OutOrStdout()

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, listing)
	}

	tabs := pterm.TableData{{"TAB", "LABEL", "HREF"}}
	for _, l := range listing.Tabs {
		tabs = append(tabs, []string{l.Tab.String(), l.Label, l.Href})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(tabs).WithWriter(out).Render(); err != nil {
		return err
	}

	fmt.Fprintln(out)

	redirects := pterm.TableData{{"ALIAS", "NORMALIZED", sym.Redirect + " TARGET"}}
	for _, r := range listing.Redirects {
		redirects = append(redirects, []string{r.Alias, r.Normalized, r.Target.String()})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(redirects).WithWriter(out).Render()
}
