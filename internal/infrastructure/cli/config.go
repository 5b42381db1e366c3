package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/loadline/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the workspace configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration, environment overrides included",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfig(root)
		if err != nil {
			return NewCLIError("failed to load config", "Fix or remove .loadline/config.yaml", err)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// configSetters maps a dotted key to the field it updates.
var configSetters = map[string]func(*config.Config, string) error{
	"storage.backend":     func(c *config.Config, v string) error { c.Storage.Backend = strings.ToLower(v); return nil },
	"storage.sqlite_path": func(c *config.Config, v string) error { c.Storage.SQLitePath = v; return nil },
	"forecast.default_months": func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Forecast.DefaultMonths = n
		return err
	},
	"forecast.workers": func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Forecast.Workers = n
		return err
	},
	"forecast.fetch_timeout": func(c *config.Config, v string) error {
		d, err := time.ParseDuration(v)
		c.Forecast.FetchTimeout = config.Duration{Duration: d}
		return err
	},
	"log.level":   func(c *config.Config, v string) error { c.Log.Level = v; return nil },
	"log.format":  func(c *config.Config, v string) error { c.Log.Format = v; return nil },
	"server.addr": func(c *config.Config, v string) error { c.Server.Addr = v; return nil },
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for k := range configSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		set, ok := configSetters[key]
		if !ok {
			return NewCLIError(fmt.Sprintf("unknown config key %q", key), "Valid keys: "+strings.Join(configKeys(), ", "), nil)
		}

		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfig(root)
		if err != nil {
			return NewCLIError("failed to load config", "Fix or remove .loadline/config.yaml", err)
		}
		if err := set(cfg, value); err != nil {
			return NewCLIError(fmt.Sprintf("invalid value for %s", key), "", err)
		}
		if err := cfg.Validate(); err != nil {
			return NewCLIError(fmt.Sprintf("invalid value for %s", key), "", err)
		}
		if err := config.SaveConfig(root, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	RootCmd.AddCommand(configCmd)
}
