package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/services"
	"github.com/ArowuTest/valera-classroom/internal/utils"
	"github.com/ArowuTest/valera-classroom/pkg/jwt"
	"github.com/spf13/cobra"
)

func (a *app) catalog() (*services.CatalogService, error) {
	rules, err := a.cfg.GameRules()
	if err != nil {
		return nil, err
	}
	return services.NewCatalogService(a.store.Prizes, a.store.ShopItems, rules.Prizes), nil
}

func runImport(cmd *cobra.Command, path string, load func(ctx context.Context, r io.Reader) (*utils.ImportResult, error)) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	res, err := load(cmd.Context(), file)
	if err != nil {
		return err
	}
	for _, e := range res.Errors {
		log.Printf("[WARN] %s", e)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d rows read, %d imported, %d skipped\n", res.TotalRows, res.Created, len(res.Errors))
	return nil
}

func newImportPrizesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-prizes <csv>",
		Short: "Import lottery prizes (name,prize_type,students_change,valera_change,probability)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}
			return runImport(cmd, args[0], utils.NewCSVImporter(catalog).ImportPrizes)
		},
	}
}

func newImportShopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-shop <csv>",
		Short: "Import the price list (name,price)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}
			return runImport(cmd, args[0], utils.NewCSVImporter(catalog).ImportShopItems)
		},
	}
}

func newCreateAdminCmd(a *app) *cobra.Command {
	var teacher bool
	cmd := &cobra.Command{
		Use:   "create-admin <username> <password>",
		Short: "Create an account for the admin API",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := services.NewAuthService(a.store.Admins, jwt.NewTokenService(a.cfg.JWT.Secret, a.cfg.TokenTTL()))
			user, err := auth.CreateUser(cmd.Context(), args[0], args[1], !teacher)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %q (id %d)\n", user.Role(), user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&teacher, "teacher", false, "create a non-admin account")
	return cmd
}

func newCreateClassCmd(a *app) *cobra.Command {
	var students, valera int
	cmd := &cobra.Command{
		Use:   "create-class <name>",
		Short: "Create a class with optional starting balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			classes := services.NewClassService(a.store.Classes, a.store.Transactions)
			class, err := classes.CreateClass(cmd.Context(), &models.ClassRequest{
				Name:            args[0],
				StudentsBalance: students,
				ValeraBalance:   valera,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created class %q (id %d)\n", class.Name, class.ID)
			return nil
		},
	}
	cmd.Flags().IntVar(&students, "students", 0, "starting students balance")
	cmd.Flags().IntVar(&valera, "valera", 0, "starting Valera balance")
	return cmd
}
