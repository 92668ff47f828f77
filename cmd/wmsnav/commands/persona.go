package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/wmsnav/am"
	"github.com/teranos/wmsnav/db"
	"github.com/teranos/wmsnav/display"
	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/logger"
	"github.com/teranos/wmsnav/sym"
	"github.com/teranos/wmsnav/wms/persona"
)

// PersonaCmd reads and writes the persona kept in client storage
var PersonaCmd = &cobra.Command{
	Use:   "persona",
	Short: sym.Overlay + " Show or change the selected persona",
	Long: sym.Overlay + ` persona - Show or change the persona stored under "selectedPersona".

New sessions read it once when they mount. An absent or unknown value is
treated as comerciante.

Examples:
  wmsnav persona get
  wmsnav persona set operador
  wmsnav persona set            # writes wms.default_persona
  wmsnav persona clear`,
}

var personaGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the selected persona",
	Args:  cobra.NoArgs,
	RunE:  runPersonaGet,
}

var personaSetCmd = &cobra.Command{
	Use:       "set [persona]",
	Short:     "Store the selected persona",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(persona.Comerciante), string(persona.Operador)},
	RunE:      runPersonaSet,
}

var personaClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored persona",
	Args:  cobra.NoArgs,
	RunE:  runPersonaClear,
}

var personaDBPath string

func init() {
	PersonaCmd.PersistentFlags().StringVar(&personaDBPath, "db-path", "", "Custom database path (overrides database.path)")

	PersonaCmd.AddCommand(personaGetCmd)
	PersonaCmd.AddCommand(personaSetCmd)
	PersonaCmd.AddCommand(personaClearCmd)
}

type personaStatus struct {
	Persona persona.Persona `json:"persona"`
	Stored  string          `json:"stored"`
	Present bool            `json:"present"`
}

func runPersonaGet(cmd *cobra.Command, args []string) error {
	database, err := openDatabase(personaDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	store := db.NewClientStore(database)
	raw, ok, err := store.Get(cmd.Context(), persona.StorageKey)
	if err != nil {
		return err
	}
	p, err := persona.LoadSelected(cmd.Context(), store)
	if err != nil {
		logger.Warnw("Falling back to default persona", logger.FieldError, err)
	}

	status := personaStatus{Persona: p, Stored: raw, Present: ok}
	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, status)
	}

	switch {
	case !ok:
		fmt.Fprintf(out, "%s (not stored, default)\n", p)
	case !isPersona(raw):
		fmt.Fprintf(out, "%s (stored %q is not a persona, default)\n", p, raw)
	default:
		fmt.Fprintln(out, p)
	}
	return nil
}

func runPersonaSet(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		cfg, err := am.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}
		name = cfg.WMS.DefaultPersona
	}

	p, err := persona.Parse(name)
	if err != nil {
		return errors.WithHintf(err, "supported personas: %s, %s", persona.Comerciante, persona.Operador)
	}

	database, err := openDatabase(personaDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.NewClientStore(database).Set(cmd.Context(), persona.StorageKey, p.String()); err != nil {
		return err
	}
	logger.Infow("Persona stored", logger.FieldPersona, p)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Persona set to %s\n", p)
	return nil
}

func runPersonaClear(cmd *cobra.Command, args []string) error {
	database, err := openDatabase(personaDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.NewClientStore(database).Delete(cmd.Context(), persona.StorageKey); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Persona cleared (sessions default to %s)\n", persona.Default)
	return nil
}

func isPersona(s string) bool {
	_, err := persona.Parse(s)
	return err == nil
}
