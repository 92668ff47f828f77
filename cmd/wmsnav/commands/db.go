package commands

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/wmsnav/db"
	"github.com/teranos/wmsnav/display"
	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/sym"
	"github.com/teranos/wmsnav/wms/telemetry"
)

// DbCmd represents the database management command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: sym.DB + " Database management",
	Long: sym.DB + ` db - Manage the wmsnav SQLite database

Examples:
  wmsnav db migrate              # Apply pending migrations
  wmsnav db events --limit 20    # Show recent route and overlay records`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations and list applied versions",
	Args:  cobra.NoArgs,
	RunE:  runDbMigrate,
}

var dbEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent telemetry records",
	Args:  cobra.NoArgs,
	RunE:  runDbEvents,
}

var (
	dbPath        string
	dbEventsLimit int
)

func init() {
	DbCmd.PersistentFlags().StringVar(&dbPath, "db-path", "", "Custom database path (overrides database.path)")
	dbEventsCmd.Flags().IntVar(&dbEventsLimit, "limit", 20, "Maximum records per kind")

	DbCmd.AddCommand(dbMigrateCmd)
	DbCmd.AddCommand(dbEventsCmd)
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	database, err := openDatabase(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	versions, err := db.AppliedVersions(database)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, map[string]interface{}{"applied": versions})
	}

	fmt.Fprintf(out, "✓ Database up to date (%d migrations)\n", len(versions))
	for _, v := range versions {
		fmt.Fprintf(out, "  %s\n", v)
	}
	return nil
}

type eventsListing struct {
	Routes   []telemetry.RouteEvent   `json:"routes"`
	Overlays []telemetry.OverlayEvent `json:"overlays"`
}

func runDbEvents(cmd *cobra.Command, args []string) error {
	if dbEventsLimit <= 0 {
		return errors.Newf("--limit must be positive, got %d", dbEventsLimit)
	}

	database, err := openDatabase(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()
	routes, err := telemetry.RecentRoutes(ctx, database, dbEventsLimit)
	if err != nil {
		return err
	}
	overlays, err := telemetry.RecentOverlays(ctx, database, dbEventsLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, eventsListing{Routes: routes, Overlays: overlays})
	}

	routeData := pterm.TableData{{"TIME", "INCOMING", "NORMALIZED", sym.Route + " RESOLVED", "REASON"}}
	for _, ev := range routes {
		routeData = append(routeData, []string{
			ev.Timestamp.Local().Format(time.DateTime), fmt.Sprintf("%q", ev.Incoming), ev.Normalized, ev.Resolved, ev.Reason,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(routeData).WithWriter(out).Render(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	overlayData := pterm.TableData{{"TIME", "PERSONA", "SUBMODULE", "HAS OVERLAY", sym.Overlay + " ACTION"}}
	for _, ev := range overlays {
		overlayData = append(overlayData, []string{
			ev.Timestamp.Local().Format(time.DateTime), ev.Persona, ev.Submodule, fmt.Sprint(ev.HasOverlay), ev.Action,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(overlayData).WithWriter(out).Render()
}
