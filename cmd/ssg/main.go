package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/cobra"

	ssg "github.com/goliatone/go-ssg"
	"github.com/goliatone/go-ssg/internal/logging/gologger"
	"github.com/goliatone/go-ssg/pkg/interfaces"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "ssg",
	Short: "ssg builds a static blog and portfolio site from Markdown content",
	Long: `ssg turns a tree of Markdown posts and pages into a static HTML site.
Posts live under the content posts directory, layouts under the layouts
directory, and the rendered tree lands in the configured output directory.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		// Configuration mistakes (layout cycles, collisions, bad front
		// matter) exit distinctly from runtime failures.
		if goerrors.IsCategory(err, goerrors.CategoryValidation) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "site.yml", "path to the site configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json, pretty)")
}

// loadSite reads the configured site.yml, falling back to defaults when the
// default config file does not exist.
func loadSite() (ssg.Site, error) {
	site, err := ssg.LoadConfig(cfgFile)
	if err == nil {
		return site, nil
	}

	if cfgFile == "site.yml" && errors.Is(err, fs.ErrNotExist) {
		return ssg.DefaultConfig(), nil
	}
	return ssg.Site{}, err
}

func newLoggerProvider() (interfaces.LoggerProvider, error) {
	return gologger.NewProvider(gologger.Config{
		Level:  logLevel,
		Format: logFormat,
	})
}

func newModule() (*ssg.Module, ssg.Site, error) {
	site, err := loadSite()
	if err != nil {
		return nil, ssg.Site{}, err
	}

	provider, err := newLoggerProvider()
	if err != nil {
		return nil, ssg.Site{}, err
	}

	module, err := ssg.New(site, ssg.WithLogger(provider))
	if err != nil {
		return nil, ssg.Site{}, err
	}
	return module, site, nil
}
