// Package main is the aesy command line front-end: run analyses and
// resolve FX rates against the same engine and stores the server uses.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nickybricks/private-aesy-sub003/internal/clientdata"
	"github.com/nickybricks/private-aesy-sub003/internal/clients/fxquote"
	"github.com/nickybricks/private-aesy-sub003/internal/config"
	"github.com/nickybricks/private-aesy-sub003/internal/database"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/fx"
	"github.com/nickybricks/private-aesy-sub003/pkg/logger"
)

// env holds the wired dependencies shared by all commands.
type env struct {
	cfg      *config.Config
	ratesDB  *database.DB
	cacheDB  *database.DB
	resolver *fx.Resolver
	close    func()
}

// loadViperConfig wires the optional aesy.yaml config file and the
// AESY_* environment variables into viper. A missing file is fine, a
// malformed one is not.
func loadViperConfig() error {
	viper.SetConfigName("aesy")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config"))
	}

	viper.SetEnvPrefix("aesy")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	return nil
}

// setup opens the databases and wires the FX resolution chain.
func setup() (*env, error) {
	if err := loadViperConfig(); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	// The CLI is quiet by default; verbose logs go to the server.
	logLevel := cfg.LogLevel
	if !viper.GetBool("verbose") {
		logLevel = "error"
	}
	log := logger.New(logger.Config{Level: logLevel, Pretty: true})

	ratesDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "rates.db"),
		Profile: database.ProfileStandard,
		Name:    "rates",
	})
	if err != nil {
		return nil, fmt.Errorf("open rates database: %w", err)
	}

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		ratesDB.Close()
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if err := ratesDB.Migrate(); err != nil {
		ratesDB.Close()
		cacheDB.Close()
		return nil, fmt.Errorf("migrate rates database: %w", err)
	}
	if err := cacheDB.Migrate(); err != nil {
		ratesDB.Close()
		cacheDB.Close()
		return nil, fmt.Errorf("migrate cache database: %w", err)
	}

	cacheRepo := clientdata.NewRepository(cacheDB.Conn())
	fxQuoteClient := fxquote.NewClient(cfg.FxAPIBaseURL, cacheRepo, log)
	fxRepo := fx.NewRepository(ratesDB.Conn())
	resolver := fx.NewResolver(fxRepo, fxQuoteClient, log)

	return &env{
		cfg:      cfg,
		ratesDB:  ratesDB,
		cacheDB:  cacheDB,
		resolver: resolver,
		close: func() {
			ratesDB.Close()
			cacheDB.Close()
		},
	}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "aesy",
		Short:         "Score and value equities from fundamentals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newFxCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
