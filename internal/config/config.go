// Package config provides configuration loading for the binrota commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ewanmcn/binrota/internal/common"
)

// Council holds the settings needed to reach the council street page.
type Council struct {
	// RecordID is the street's directory record number.
	RecordID string
	// Street is the street name slug from the directory URL.
	Street string
	// BaseURL overrides the council site, mainly for testing.
	BaseURL string
}

// Calendar holds the settings for the optional long-range calendar document.
type Calendar struct {
	// Path points at the decoded calendar text file.
	Path string
	// Year resolves day-month dates in the document.
	Year int
}

// LoadCouncilConfig loads council settings from Viper and environment
// variables. Precedence:
// 1. Viper configuration (config file or BINROTA_ env vars)
// 2. Direct environment variables (BIN_COUNCIL_*)
func LoadCouncilConfig() (*Council, error) {
	cfg := &Council{
		RecordID: viper.GetString("council.record_id"),
		Street:   viper.GetString("council.street"),
		BaseURL:  viper.GetString("council.base_url"),
	}

	if cfg.RecordID == "" {
		cfg.RecordID = os.Getenv("BIN_COUNCIL_RECORD_ID")
	}
	if cfg.Street == "" {
		cfg.Street = os.Getenv("BIN_COUNCIL_STREET")
	}

	if cfg.RecordID == "" || cfg.Street == "" {
		return nil, fmt.Errorf("%w: council.record_id and council.street must be set", common.ErrMissingConfig)
	}

	return cfg, nil
}

// LoadCalendarConfig loads the historical calendar settings. A fully absent
// calendar is not an error; it returns nil so callers can run without
// history.
func LoadCalendarConfig() (*Calendar, error) {
	path := viper.GetString("calendar.path")
	year := viper.GetInt("calendar.year")

	if path == "" {
		return nil, nil
	}
	if year <= 0 {
		return nil, fmt.Errorf("%w: calendar.year must be set when calendar.path is", common.ErrInvalidConfig)
	}

	return &Calendar{Path: ExpandPath(path), Year: year}, nil
}

// DatabasePath resolves the SQLite database location, defaulting under the
// user's local share directory.
func DatabasePath() string {
	if p := viper.GetString("database.path"); p != "" {
		return ExpandPath(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "binrota.db"
	}
	return filepath.Join(home, ".local", "share", "binrota", "binrota.db")
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
