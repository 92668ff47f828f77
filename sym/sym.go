// Package sym defines the glyphs wmsnav uses as stable markers in logs, CLI
// output and the HTTP API. Keep them in one place so every surface agrees.
package sym

const (
	AM       = "≡" // am: configuration and system settings
	DB       = "⊔" // database/storage layer
	Route    = "⟶" // tab resolution
	Overlay  = "◐" // persona overlay decisions
	Open     = "✿" // session mount and readiness transitions
	Close    = "❀" // session teardown
	Invalid  = "⊘" // unknown tab
	Redirect = "↪" // alias rewritten to a canonical tab
)
