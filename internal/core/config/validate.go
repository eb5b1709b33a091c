package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/organizer/internal/core/task"
	"github.com/hay-kot/organizer/internal/idalloc"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including file accessibility and the snapshot contents. The configPath
// argument specifies the config file location to validate (empty string
// skips config file check). This calls Validate() first for basic structural
// validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateSnapshot(),
		c.validateStrategy(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if !c.Persistence.Enabled {
		warnings = append(warnings, ValidationWarning{
			Category: "Persistence",
			Message:  "persistence is disabled; tasks are not kept between runs",
		})
	}

	if c.Strategy() == idalloc.StrategyCounter && c.IDPrefix == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "IDs",
			Item:     "id_prefix",
			Message:  "counter ids without a prefix are bare numbers",
		})
	}

	return warnings
}

// validateFileAccess checks config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateSnapshot checks that the snapshot file, when set, loads.
func (c *Config) validateSnapshot() error {
	return criterio.Run("snapshot", c.Snapshot, func(path string) error {
		if path == "" {
			return nil
		}
		_, err := task.LoadSnapshot(path)
		return err
	})
}

// validateStrategy checks that the id strategy can work with the rest of the
// configuration.
func (c *Config) validateStrategy() error {
	var errs criterio.FieldErrorsBuilder

	if c.Strategy() == idalloc.StrategySQLite && !c.Persistence.Enabled {
		errs = errs.Append("id_strategy", errors.New("sqlite strategy requires persistence.enabled"))
	}

	return errs.ToError()
}
