package commands

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/wmsnav/am"
	"github.com/teranos/wmsnav/display"
	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage wmsnav configuration",
	Long: sym.AM + ` am - Manage wmsnav configuration

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/wmsnav/config.toml)
3. User config (~/.wmsnav/am.toml)
4. Project config (./am.toml, searched up from the working directory)
5. Environment variables (WMSNAV_* prefix)
6. Command line flags

Examples:
  wmsnav am show                    # Show current configuration
  wmsnav am show --format yaml      # Show configuration as YAML
  wmsnav am get wms.default_persona # Get a specific value
  wmsnav am validate                # Validate current configuration
  wmsnav am where                   # Show where each value comes from`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a configuration value using dot notation (e.g., database.path, wms.data_load_delay_ms)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate the effective configuration and reject unknown keys in every active config file",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	format := configFormat
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}
	return writeConfig(cmd.OutOrStdout(), cfg, format)
}

func writeConfig(w io.Writer, cfg *am.Config, format string) error {
	switch format {
	case "json":
		return display.OutputJSON(w, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		_, err = fmt.Fprintf(w, "# wmsnav configuration\n%s", data)
		return err

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		_, err = fmt.Fprintf(w, "# wmsnav configuration\n%s", data)
		return err

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	if _, err := am.Load(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if !am.GetViper().IsSet(key) {
		return errors.Newf("configuration key %q not found", key)
	}

	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	for _, path := range am.ActiveConfigFiles() {
		unknown, err := am.UnknownKeys(path)
		if err != nil {
			return err
		}
		if len(unknown) > 0 {
			return errors.WithHintf(
				errors.Newf("%s: unknown configuration keys %v", path, unknown),
				"run 'wmsnav am show' to list supported keys")
		}
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	settings, err := am.Introspect()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, settings)
	}

	files := am.ActiveConfigFiles()
	if len(files) == 0 {
		fmt.Fprintln(out, "No config files found; using defaults and environment")
	} else {
		fmt.Fprintln(out, "Active config files (later overrides earlier):")
		for i, f := range files {
			fmt.Fprintf(out, "  %d. %s\n", i+1, f)
		}
	}
	fmt.Fprintln(out)

	data := pterm.TableData{{"KEY", "VALUE", "SOURCE", "FROM"}}
	for _, s := range settings {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(out).Render()
}
