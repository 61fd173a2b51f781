package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pwalczyk/scanserv-cli/internal/api"
	"github.com/pwalczyk/scanserv-cli/internal/config"
	"github.com/pwalczyk/scanserv-cli/internal/scanner"
)

// cfgFile stores an optional explicit path to a config file
// (if not provided we read the platform default, ~/.config/scanserv/config.toml).
var cfgFile string

// Action flags. These pick what the invocation does; everything else
// (server, device, scan parameters, output dir) flows through viper so
// flags > env > config file > defaults merge cleanly.
var (
	flagList        bool
	flagScan        bool
	flagNoDownload  bool
	flagDownloadAll bool
	flagDownload    string
)

var rootCmd = &cobra.Command{
	Use:     "scanserv",
	Short:   "Command-line client for a scanservjs scanner server",
	Version: "0.1.0",
	// PersistentPreRun loads config/env before the run; config problems are
	// never fatal (a malformed file warns and falls back to defaults).
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Init(viper.GetViper(), cfgFile, os.Stderr)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(viper.GetViper(), os.Stderr)

		// ctx bounds the whole invocation; individual calls have no retry
		// or per-request timeout of their own.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		s := scanner.New(api.New(cfg.Server), os.Stdout, os.Stderr)

		// Bare invocation or --list: show scanners and files, done.
		if cmd.Flags().NFlag() == 0 || flagList {
			s.ListScanners(ctx)
			s.ListFiles(ctx)
			return nil
		}

		if flagScan {
			if err := validateScanParams(cfg.Scan.Mode, cfg.Scan.Quality); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			// The only fatal path besides bad parameters: a bad device
			// selection means no scan operation can follow. The selection
			// methods have already printed the reason; returning the error
			// sets the exit code.
			if err := s.SelectScanner(ctx, viper.GetString("device")); err != nil {
				return err
			}
			var dest *string
			if !flagNoDownload {
				dir := cfg.Files.OutputDir
				dest = &dir
			}
			// Scan failures are reported on the console but do not change
			// the exit code, same as any other server failure.
			_, _ = s.ScanA4(ctx, dest, cfg.Scan.Resolution, cfg.Scan.Mode, cfg.Scan.Quality)
		}

		// --download-all and --download combine freely with --scan; each is
		// checked independently.
		if flagDownloadAll {
			s.DownloadAll(ctx, cfg.Files.OutputDir)
		}

		if flagDownload != "" {
			if _, err := s.DownloadFile(ctx, flagDownload, cfg.Files.OutputDir); err == nil {
				dest := "to current directory"
				if cfg.Files.OutputDir != "" {
					dest = "to " + cfg.Files.OutputDir
				}
				fmt.Fprintf(os.Stdout, "Downloaded %s %s\n", flagDownload, dest)
			}
		}

		return nil
	},
}

// validateScanParams enforces the two enum flags before anything touches
// the server.
func validateScanParams(mode, quality string) error {
	switch mode {
	case "Color", "Gray":
	default:
		return fmt.Errorf("invalid --mode %q: choose Color or Gray", mode)
	}
	switch quality {
	case "high", "medium", "low":
	default:
		return fmt.Errorf("invalid --quality %q: choose high, medium or low", quality)
	}
	return nil
}

// Execute is called from main.go and starts the CLI. Any error coming out
// of RunE has already been printed, so only the exit code is set here.
func Execute() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	d := config.Defaults()

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: "+config.Path()+")")

	rootCmd.Flags().String("server", d.Server, "scanner server URL")
	// --device stays a string so an unparseable number reaches the
	// selection check instead of dying in flag parsing.
	rootCmd.Flags().String("device", fmt.Sprintf("%d", d.Device), "scanner number (1-based)")
	rootCmd.Flags().Int("resolution", d.Scan.Resolution, "scan resolution in DPI")
	rootCmd.Flags().String("mode", d.Scan.Mode, "color mode: Color or Gray")
	rootCmd.Flags().String("quality", d.Scan.Quality, "image quality: high, medium or low")
	rootCmd.Flags().String("output-dir", d.Files.OutputDir, "output directory for downloaded files")

	rootCmd.Flags().BoolVar(&flagList, "list", false, "list available scanners and files")
	rootCmd.Flags().BoolVar(&flagScan, "scan", false, "scan a document")
	rootCmd.Flags().BoolVar(&flagNoDownload, "no-download", false, "do not download the scanned file locally")
	rootCmd.Flags().BoolVar(&flagDownloadAll, "download-all", false, "download all scanned files from the server")
	rootCmd.Flags().StringVar(&flagDownload, "download", "", "download a specific file from the server")

	// Bind value flags to viper keys so config/env/flags merge cleanly.
	_ = viper.BindPFlag("server", rootCmd.Flags().Lookup("server"))
	_ = viper.BindPFlag("device", rootCmd.Flags().Lookup("device"))
	_ = viper.BindPFlag("scan.resolution", rootCmd.Flags().Lookup("resolution"))
	_ = viper.BindPFlag("scan.mode", rootCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("scan.quality", rootCmd.Flags().Lookup("quality"))
	_ = viper.BindPFlag("files.output_dir", rootCmd.Flags().Lookup("output-dir"))
}
