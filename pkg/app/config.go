package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/autopeer-io/fleetcare/pkg/log"
)

// envPrefix derives the environment variable prefix from the command name,
// e.g. fleetcare-server -> FLEETCARE_SERVER.
func envPrefix(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// loadConfig layers the sources in viper's order: flags set on the command
// line, environment (a .env file in the working directory included), the
// config file, then flag defaults.
func (a *App) loadConfig(flags *pflag.FlagSet) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix(a.name))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if a.configFile == "" {
		return v, nil
	}

	v.SetConfigFile(a.configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", a.configFile, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		level := v.GetString("log.level")
		log.Info("Configuration file changed", "file", e.Name, "op", e.Op.String(), "log.level", level)
		if err := log.SetLevel(level); err != nil {
			log.Error(err, "Failed to apply log level from configuration", "level", level)
		}
	})
	v.WatchConfig()

	return v, nil
}
