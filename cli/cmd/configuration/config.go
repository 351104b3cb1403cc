package configuration

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	v1 "ocm.software/open-component-model/bindings/go/scene/cli/configuration/v1"
)

// Configuration file and directory constants
const (
	ConfigDirectoryName   = "scenectl"
	ConfigFileName        = "config.yaml"
	HiddenConfigFileName  = ".scenectl.yaml"
	ConfigEnvironmentKey  = "SCENECTL_CONFIG"
	ConfigCommandArgument = "config"
)

func RegisterConfigFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(ConfigCommandArgument, "", `supply configuration by a given configuration file.
By default (without specifying custom locations with this flag), the file will be read from the well known locations:
1. The path specified in the SCENECTL_CONFIG environment variable
2. $XDG_CONFIG_HOME/scenectl/config.yaml
3. $HOME/.config/scenectl/config.yaml
4. $HOME/.scenectl.yaml
5. $PWD/.scenectl.yaml
Files found earlier in this list take precedence over later ones.
Using the option, this configuration file is used instead of the lookup above.`)
}

// GetConfigForCommand loads the configuration given with the config flag, or
// merges the configurations found in the well known locations.
// Without any configuration file the defaults are returned.
func GetConfigForCommand(cmd *cobra.Command) (*v1.Config, error) {
	path, _ := cmd.Flags().GetString(ConfigCommandArgument)
	if path != "" {
		cfg, err := GetConfigFromPath(path)
		if err != nil {
			return nil, err
		}
		return v1.Merge(cfg), nil
	}
	return GetConfig(GetConfigPaths()...), nil
}

// GetConfig loads all given configuration files. Files that cannot be loaded
// are skipped. Earlier paths take precedence.
func GetConfig(paths ...string) *v1.Config {
	cfgs := make([]*v1.Config, 0, len(paths))
	for _, path := range paths {
		cfg, err := GetConfigFromPath(path)
		if err != nil {
			slog.Error("config path was skipped due to an error loading it",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			continue
		}
		slog.Debug("config was loaded successfully", slog.String("path", path))
		cfgs = append(cfgs, cfg)
	}
	slices.Reverse(cfgs)
	return v1.Merge(cfgs...)
}

// GetConfigFromPath reads and decodes the configuration file at path.
func GetConfigFromPath(path string) (_ *v1.Config, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	cfg, err := v1.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// GetConfigPaths returns the existing configuration files of the well known
// locations in order of precedence.
func GetConfigPaths() []string {
	var candidates []string
	if env := os.Getenv(ConfigEnvironmentKey); env != "" {
		candidates = append(candidates, env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, ConfigDirectoryName, ConfigFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", ConfigDirectoryName, ConfigFileName),
			filepath.Join(home, HiddenConfigFileName),
		)
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, HiddenConfigFileName))
	}

	paths := make([]string, 0, len(candidates))
	for _, path := range candidates {
		if slices.Contains(paths, path) {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			paths = append(paths, path)
		}
	}
	return paths
}
