package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/tessro/serenade/internal/config"
	"github.com/tessro/serenade/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing serenade configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values, including defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration paths",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  catalog.path             Path to a catalog.toml manifest
  landing.recipient        Name shown on the landing screen
  landing.headline         Landing headline
  landing.message          Landing message
  player.skip_seconds      Seconds per skip
  player.repeat            Start with repeat on (true/false)
  player.require_gesture   Wait for a key press before playing (true/false)
  player.mute              Run without audio output (true/false)
  tui.theme                auto, dark or light
  tui.notify               Desktop notification on song change (true/false)
  tui.mouse                Enable mouse support (true/false)
  log.level                debug, info, warn or error

Examples:
  serenade config set landing.recipient "Sam"
  serenade config set player.skip_seconds 10`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

const configHeader = "# Serenade Configuration\n\n"

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	encoder := toml.NewEncoder(cmd.OutOrStdout())
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	paths := map[string]string{
		"config": getConfigPath(),
		"dir":    config.Dir(),
		"log":    cfg.Log.File,
	}
	if paths["log"] == "" {
		paths["log"] = logging.DefaultPath()
	}

	if JSONOutput() {
		return printJSON(paths)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config: %s\n", paths["config"])
	fmt.Fprintf(out, "dir:    %s\n", paths["dir"])
	fmt.Fprintf(out, "log:    %s\n", paths["log"])
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'serenade config init' first", configPath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()
	if err := writeDefaultConfig(configPath); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintln(cmd.OutOrStdout(), "  1. Set landing.recipient to the name of your special someone")
	fmt.Fprintf(cmd.OutOrStdout(), "  2. Put the audio files in %s, or point catalog.path at your own manifest\n", config.Dir())
	return nil
}

// writeDefaultConfig creates path holding the default configuration. It
// refuses to overwrite an existing file.
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = f.WriteString(configHeader)

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(config.Default()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".serenaderc"
	}

	return filepath.Join(home, ".serenaderc")
}

// configKeyKinds lists the keys config set accepts and how to parse them.
var configKeyKinds = map[string]string{
	"catalog.path":           "string",
	"landing.recipient":      "string",
	"landing.headline":       "string",
	"landing.message":        "string",
	"landing.button":         "string",
	"landing.footer":         "string",
	"player.skip_seconds":    "int",
	"player.repeat":          "bool",
	"player.require_gesture": "bool",
	"player.mute":            "bool",
	"tui.theme":              "string",
	"tui.refresh_interval":   "int",
	"tui.notify":             "bool",
	"tui.mouse":              "bool",
	"log.level":              "string",
	"log.file":               "string",
}

// parseConfigValue converts value to the type key expects.
func parseConfigValue(key, value string) (any, error) {
	kind, ok := configKeyKinds[key]
	if !ok {
		return nil, fmt.Errorf("unknown key %q. Run 'serenade config set --help' for the list", key)
	}
	switch kind {
	case "int":
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer for %s", key)
		}
		return i, nil
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("value must be true or false for %s", key)
		}
		return b, nil
	default:
		return value, nil
	}
}

// setConfigValue updates key in the config file at path, keeping every
// other value as written.
func setConfigValue(path, key string, value any) error {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		raw = make(map[string]any)
	}

	section, field, _ := strings.Cut(key, ".")
	sectionMap, ok := raw[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		raw[section] = sectionMap
	}
	sectionMap[field] = value

	// Validate the result before touching the file
	var check config.Config
	if _, err := toml.Decode(encodeTOML(raw), &check); err != nil {
		return err
	}
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(configHeader+encodeTOML(raw)), 0644)
}

func encodeTOML(v any) string {
	var sb strings.Builder
	encoder := toml.NewEncoder(&sb)
	encoder.Indent = "  "
	_ = encoder.Encode(v)
	return sb.String()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'serenade config init' first", configPath)
	}

	typed, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}
	if err := setConfigValue(configPath, key, typed); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}
