package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/wmsnav/am"
	"github.com/teranos/wmsnav/cmd/wmsnav/commands"
	"github.com/teranos/wmsnav/logger"
)

var rootCmd = &cobra.Command{
	Use:   "wmsnav",
	Short: "wmsnav - warehouse tab resolution and persona overlays",
	Long: `wmsnav - navigation core for the warehouse (WMS) back office.

Resolves raw ?tab= tokens to one of the eight canonical warehouse views,
applies static redirects for legacy and English aliases, and decides when
persona defaults may be overlaid on the dashboard.

Available commands:
  serve    - Start the HTTP server
  resolve  - Resolve a raw tab token
  tabs     - List canonical tabs and redirects
  persona  - Read or change the selected persona
  am       - Manage wmsnav configuration
  db       - Manage the wmsnav database

Examples:
  wmsnav resolve Recepción         # → recepciones (redirect_applied)
  wmsnav resolve dashboard --persona operador
  wmsnav persona set operador
  wmsnav serve --port 8877`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.InitializeWithVerbosity(am.GetBool("log.json"), verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON instead of tables")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.ResolveCmd)
	rootCmd.AddCommand(commands.TabsCmd)
	rootCmd.AddCommand(commands.PersonaCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
