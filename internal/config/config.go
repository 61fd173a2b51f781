package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config is what viper unmarshals after merging defaults, the config file,
// environment variables and bound flags. Every field always resolves to a
// value: sections missing from the file fall back to defaults key by key.
type Config struct {
	Server string      `mapstructure:"server"`
	Device int         `mapstructure:"device"`
	Scan   ScanConfig  `mapstructure:"scan"`
	Files  FilesConfig `mapstructure:"files"`
}

type ScanConfig struct {
	Resolution int    `mapstructure:"resolution"`
	Mode       string `mapstructure:"mode"`
	Quality    string `mapstructure:"quality"`
}

type FilesConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Defaults are the built-in fallbacks used when no config file exists.
func Defaults() Config {
	return Config{
		Server: "http://scan.home",
		Device: 1,
		Scan: ScanConfig{
			Resolution: 200,
			Mode:       "Color",
			Quality:    "high",
		},
		Files: FilesConfig{
			OutputDir: "scans",
		},
	}
}

// Path returns the platform config file location:
// %APPDATA%\scanserv\config.toml on Windows, ~/.config/scanserv/config.toml
// elsewhere. The file is only ever read, never written.
func Path() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "scanserv", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "scanserv", "config.toml")
}

// Init seeds v with defaults, env handling (SCANSERV_ prefix, e.g.
// SCANSERV_SCAN_RESOLUTION) and the config file. A missing file is fine; a
// malformed one gets a warning on errOut and is discarded entirely, leaving
// the defaults in place. Nothing here is fatal.
func Init(v *viper.Viper, explicitPath string, errOut io.Writer) {
	d := Defaults()
	v.SetDefault("server", d.Server)
	v.SetDefault("device", d.Device)
	v.SetDefault("scan.resolution", d.Scan.Resolution)
	v.SetDefault("scan.mode", d.Scan.Mode)
	v.SetDefault("scan.quality", d.Scan.Quality)
	v.SetDefault("files.output_dir", d.Files.OutputDir)

	v.SetEnvPrefix("SCANSERV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := explicitPath
	if path == "" {
		path = Path()
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		fmt.Fprintf(errOut, "Warning: Error reading config file: %v\n", err)
	}
}

// Load unmarshals the merged configuration. An unmarshal failure (a file
// key of the wrong type) degrades to defaults with a warning, mirroring the
// read path: configuration problems never stop the CLI.
func Load(v *viper.Viper, errOut io.Writer) Config {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(errOut, "Warning: Error reading config file: %v\n", err)
		return Defaults()
	}
	return cfg
}
