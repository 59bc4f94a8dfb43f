/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/internal/iofs"
	"github.com/gnames/gnamed/internal/iologger"
	app "github.com/gnames/gnamed/pkg"
	"github.com/gnames/gnamed/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the base command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gnamed",
		Short:   "Unifies gene and protein records into one database",
		Long: `gnamed unifies gene and protein records of many biological
repositories (Entrez, UniProt, HGNC and others) into one species-scoped
database, so any repository's accession leads to the same merged entity.

The workflow:
  1. create:   create the database schema
  2. taxonomy: load the NCBI taxonomy dump
  3. load:     load source files listed in sources.yaml
  4. query:    list strings, accession mappings and citation counts

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNAMED_*)
  3. Config file (~/.config/gnamed/config.yaml)
  4. Built-in defaults`,
		PersistentPreRunE: bootstrap,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Remove the automatic "gnamed version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnamed")

	rootCmd.AddCommand(
		getCreateCmd(),
		getTaxonomyCmd(),
		getLoadCmd(),
		getQueryCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureSourcesFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings and proper log file location
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"command", cmd.Name(),
	)

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)
	// Booleans cannot be told apart from their zero value later.
	v.SetDefault("taxonomy.with_canonical", config.New().Taxonomy.WithCanonical)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("GNAMED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.driver", "GNAMED_DATABASE_DRIVER")
	v.BindEnv("database.host", "GNAMED_DATABASE_HOST")
	v.BindEnv("database.port", "GNAMED_DATABASE_PORT")
	v.BindEnv("database.user", "GNAMED_DATABASE_USER")
	v.BindEnv("database.password", "GNAMED_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GNAMED_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GNAMED_DATABASE_SSL_MODE")
	v.BindEnv("database.path", "GNAMED_DATABASE_PATH")
	v.BindEnv("database.batch_size", "GNAMED_DATABASE_BATCH_SIZE")

	// Taxonomy configuration
	v.BindEnv("taxonomy.dump_dir", "GNAMED_TAXONOMY_DUMP_DIR")
	v.BindEnv("taxonomy.with_canonical", "GNAMED_TAXONOMY_WITH_CANONICAL")

	// Load configuration
	v.BindEnv("load.mode", "GNAMED_LOAD_MODE")
	v.BindEnv("load.metrics_file", "GNAMED_LOAD_METRICS_FILE")

	// Log configuration
	v.BindEnv("log.level", "GNAMED_LOG_LEVEL")
	v.BindEnv("log.format", "GNAMED_LOG_FORMAT")
	v.BindEnv("log.destination", "GNAMED_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "GNAMED_JOBS_NUMBER")

	v.AutomaticEnv()
}
