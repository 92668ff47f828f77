// Package tab resolves the raw `tab` navigation parameter of the warehouse
// module to one of eight canonical tabs or to the Invalid sentinel.
//
// Resolution is a pure function of the raw string:
//
//	empty or whitespace   -> Dashboard  (ReasonFallbackEmpty)
//	canonical token       -> that tab   (ReasonDirectMatch)
//	redirect alias        -> its target (ReasonRedirectApplied)
//	anything else         -> Invalid    (ReasonInvalidTab)
//
// Empty input and unrecognized input are different outcomes on purpose. Only
// empty input falls back to the dashboard; unknown tokens surface as Invalid
// so the caller can render the unknown-tab view.
package tab

// Tab identifies a warehouse sub-view. The zero value is not a tab.
type Tab string

// Canonical tabs, in display order.
const (
	Dashboard     Tab = "dashboard"
	Recepciones   Tab = "recepciones"
	Inventario    Tab = "inventario"
	Ubicaciones   Tab = "ubicaciones"
	Picking       Tab = "picking"
	Packing       Tab = "packing"
	CrossDock     Tab = "cross-dock"
	Discrepancias Tab = "discrepancias"
)

// Invalid is the resolved value for a non-empty token that matches nothing.
// It is a first-class result, not an error.
const Invalid Tab = "invalid"

var canonical = [...]Tab{
	Dashboard,
	Recepciones,
	Inventario,
	Ubicaciones,
	Picking,
	Packing,
	CrossDock,
	Discrepancias,
}

var canonicalSet = func() map[Tab]struct{} {
	m := make(map[Tab]struct{}, len(canonical))
	for _, t := range canonical {
		m[t] = struct{}{}
	}
	return m
}()

// Canonical returns the canonical tabs in display order. The slice is a copy.
func Canonical() []Tab {
	out := make([]Tab, len(canonical))
	copy(out, canonical[:])
	return out
}

// IsCanonical reports whether t is one of the eight canonical tabs.
func (t Tab) IsCanonical() bool {
	_, ok := canonicalSet[t]
	return ok
}

// IsInvalid reports whether t is the Invalid sentinel.
func (t Tab) IsInvalid() bool {
	return t == Invalid
}

func (t Tab) String() string {
	return string(t)
}
