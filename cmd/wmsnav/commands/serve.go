package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/wmsnav/am"
	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/logger"
	"github.com/teranos/wmsnav/server"
)

// ServeCmd starts the wmsnav HTTP server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the wmsnav HTTP server",
	Long: `Start the HTTP server exposing tab resolution, the /wms navigation entry
point, view sessions and their readiness websocket.

Readiness delays are reloaded when the active am.toml changes.`,
	RunE: runServe,
}

var (
	servePort    int
	serveDBPath  string
	serveNoWatch bool
)

func init() {
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	ServeCmd.Flags().StringVar(&serveDBPath, "db-path", "", "Custom database path (overrides database.path)")
	ServeCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload config on file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Server defaults to Info verbosity
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity == 0 {
		verbosity = logger.VerbosityInfo
	}

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	if err := logger.InitializeWithVerbosity(cfg.Log.JSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	dbPath, err := resolveDatabasePath(serveDBPath)
	if err != nil {
		return err
	}
	database, err := openDatabase(dbPath)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	if !cfg.Log.JSON {
		printStartupBanner(cmd.OutOrStdout(), verbosity, port, dbPath)
	}

	srv := server.NewWMSServer(database, cfg, logger.ComponentLogger("server"))

	if !serveNoWatch {
		if watcher := startConfigWatcher(srv); watcher != nil {
			defer watcher.Stop()
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(port)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		if err != nil {
			return errors.Wrap(err, "server failed to start")
		}
		return nil
	case <-sigChan:
		pterm.Info.Println("Shutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- srv.Stop()
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				return fmt.Errorf("shutdown error: %w", err)
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			pterm.Warning.Println("Force shutdown - exiting immediately")
			os.Exit(1)
			return nil
		}
	}
}

// startConfigWatcher watches the highest-precedence config file, if any
func startConfigWatcher(srv *server.WMSServer) *am.ConfigWatcher {
	files := am.ActiveConfigFiles()
	if len(files) == 0 {
		logger.Debugw("No config file to watch")
		return nil
	}
	path := files[len(files)-1]

	watcher, err := am.NewConfigWatcher(path)
	if err != nil {
		logger.Warnw("Config watcher disabled", "path", path, logger.FieldError, err)
		return nil
	}
	watcher.OnReload(srv.ApplyConfig)
	watcher.Start()
	logger.Infow("Watching config for changes", "path", path)
	return watcher
}
