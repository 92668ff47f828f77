package tab

import "fmt"

// redirects maps legacy, English and accented aliases to canonical tabs.
// Aliases are written the way they appear in old links; lookups go through
// redirectIndex, which is keyed by the normalized alias.
var redirects = map[string]Tab{
	// Spanish singular and legacy spellings
	"recepcion":  Recepciones,
	"recepción":  Recepciones,
	"ubicacion":  Ubicaciones,
	"ubicación":  Ubicaciones,
	"crossdock":  CrossDock,
	"cross_dock": CrossDock,

	// English names
	"warehouse":     Dashboard,
	"home":          Dashboard,
	"inventory":     Inventario,
	"stock":         Inventario,
	"receiving":     Recepciones,
	"receipts":      Recepciones,
	"locations":     Ubicaciones,
	"pick":          Picking,
	"pack":          Packing,
	"discrepancies": Discrepancias,
}

var redirectIndex = buildRedirectIndex(redirects)

// buildRedirectIndex keys the alias table by normalized token. It panics when
// the table breaks its invariants: every target canonical, no alias that
// normalizes to nothing or to a canonical tab, no two aliases sharing a token
// with different targets.
func buildRedirectIndex(table map[string]Tab) map[string]Tab {
	index := make(map[string]Tab, len(table))
	for alias, target := range table {
		if !target.IsCanonical() {
			panic(fmt.Sprintf("tab: redirect %q targets non-canonical %q", alias, target))
		}
		key := Normalize(alias)
		if key == "" {
			panic(fmt.Sprintf("tab: redirect alias %q normalizes to nothing", alias))
		}
		if Tab(key).IsCanonical() {
			panic(fmt.Sprintf("tab: redirect alias %q shadows canonical tab %q", alias, key))
		}
		if prev, ok := index[key]; ok && prev != target {
			panic(fmt.Sprintf("tab: redirect token %q maps to both %q and %q", key, prev, target))
		}
		index[key] = target
	}
	return index
}

// Redirect looks up a normalized token in the redirect table.
func Redirect(token string) (Tab, bool) {
	t, ok := redirectIndex[token]
	return t, ok
}

// Redirects returns a copy of the alias table as declared.
func Redirects() map[string]Tab {
	out := make(map[string]Tab, len(redirects))
	for k, v := range redirects {
		out[k] = v
	}
	return out
}
