package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/vpdoc/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the defaults of the generate command. Pattern lists may be
// written as YAML lists or comma-separated strings.
type ApplicationConfiguration struct {
	Source         string   `mapstructure:"source"`
	Dist           string   `mapstructure:"dist"`
	Folder         string   `mapstructure:"folder"`
	Title          string   `mapstructure:"title"`
	Readme         string   `mapstructure:"readme"`
	Include        []string `mapstructure:"include"`
	Exclude        []string `mapstructure:"exclude"`
	Watch          *bool    `mapstructure:"watch"`
	RemovePatterns []string `mapstructure:"rm_pattern"`
	Partials       []string `mapstructure:"partials"`
	Helpers        []string `mapstructure:"helpers"`
	JSDocConfig    string   `mapstructure:"jsdoc_config"`
	MetricsAddress string   `mapstructure:"metrics_address"`
	Concurrency    *int     `mapstructure:"concurrency"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Include = utils.DeduplicatePatterns(utils.ExpandPatternLists(merged.Include))
	merged.Exclude = utils.DeduplicatePatterns(utils.ExpandPatternLists(merged.Exclude))
	merged.RemovePatterns = utils.DeduplicatePatterns(utils.ExpandPatternLists(merged.RemovePatterns))

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
// Empty values in override keep the receiver's value.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Source = overrideString(result.Source, override.Source)
	result.Dist = overrideString(result.Dist, override.Dist)
	result.Folder = overrideString(result.Folder, override.Folder)
	result.Title = overrideString(result.Title, override.Title)
	result.Readme = overrideString(result.Readme, override.Readme)
	result.JSDocConfig = overrideString(result.JSDocConfig, override.JSDocConfig)
	result.MetricsAddress = overrideString(result.MetricsAddress, override.MetricsAddress)
	result.Include = overrideList(result.Include, override.Include)
	result.Exclude = overrideList(result.Exclude, override.Exclude)
	result.RemovePatterns = overrideList(result.RemovePatterns, override.RemovePatterns)
	result.Partials = overrideList(result.Partials, override.Partials)
	result.Helpers = overrideList(result.Helpers, override.Helpers)
	if override.Watch != nil {
		result.Watch = cloneBool(override.Watch)
	}
	if override.Concurrency != nil {
		result.Concurrency = cloneInt(override.Concurrency)
	}
	return result
}

func overrideString(current string, override string) string {
	if override != "" {
		return override
	}
	return current
}

func overrideList(current []string, override []string) []string {
	if len(override) > 0 {
		return append([]string{}, override...)
	}
	return current
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
