package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ArowuTest/valera-classroom/internal/config"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
	"github.com/ArowuTest/valera-classroom/internal/storage"
	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	envFile    string
	cfg        *config.Config
	store      *repositories.Store
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "valeractl",
		Short:        "Administer the Valera classroom server",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.GetEnv("VALERA_CONFIG", ""), "config file (default ./config.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env", ".env", "dotenv file loaded before the config")

	root.AddCommand(
		newImportPrizesCmd(a),
		newImportShopCmd(a),
		newCreateAdminCmd(a),
		newCreateClassCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	config.LoadDotEnv(a.envFile)
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Storage.Driver == config.DriverMemory {
		log.Println("[WARN] storage driver is memory; changes are lost when valeractl exits")
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	a.cfg, a.store = cfg, store
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.store.Close(ctx)
}
