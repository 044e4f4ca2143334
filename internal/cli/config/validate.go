package config

import (
	"fmt"
	"os"
	"strings"
)

// RequireTable checks that a staging table name is configured.
func (c *Config) RequireTable() error {
	if c.TableName == "" {
		return fmt.Errorf("missing config keys: table_name\nHint: Set table_name in ifacegen.yaml or pass --table")
	}
	return nil
}

// RequireInputs checks that the named config keys hold paths to files
// that exist. Keys map to their config-file names (mapping_sheet,
// control_file, columns_csv).
func (c *Config) RequireInputs(keys ...string) error {
	var missing []string
	for _, key := range keys {
		var path string
		switch key {
		case "mapping_sheet":
			path = c.MappingSheet
		case "control_file":
			path = c.ControlFile
		case "columns_csv":
			path = c.ColumnsCSV
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if path == "" {
			missing = append(missing, key)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%s does not exist: %s", key, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing config keys: %s", strings.Join(missing, ", "))
	}
	return nil
}
