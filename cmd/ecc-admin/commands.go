package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/stanleylima25/ECC-Brasil/internal/app"
	"github.com/stanleylima25/ECC-Brasil/internal/db"
	"github.com/stanleylima25/ECC-Brasil/internal/legacy"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/repository/memory"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
)

const dateLayout = "2006-01-02"

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|status|version|redo|reset>",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: []string{"up", "down", "status", "version", "redo", "reset"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.cfg.StorageDriver != "postgres" {
				return errors.New("migrations need STORAGE_DRIVER=postgres")
			}
			database, err := db.New(cmd.Context(), e.cfg.DatabaseURL, e.logger)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer database.Close()

			return database.Migrate(cmd.Context(), args[0], args[1:]...)
		},
	}
}

func newImportCmd(e *env) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <dump.json>",
		Short: "Import a browser local-storage dump from the previous portal",
		Long: `Reads a JSON object keyed by the old local-storage names
(ecc_users_accounts, ecc_couples_db, ...) and loads it into the configured store.
Running the same dump twice does not create duplicates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open dump: %w", err)
			}
			defer f.Close()

			dump, err := legacy.Parse(f)
			if err != nil {
				return err
			}

			var importer *legacy.Importer
			if dryRun {
				importer = legacy.NewImporter(memory.New().Store(), e.cfg.ChatRetention, e.logger)
			} else {
				storage, err := app.OpenStorage(cmd.Context(), e.cfg, e.logger)
				if err != nil {
					return err
				}
				defer storage.Close()
				importer = legacy.NewImporter(storage.Store, e.cfg.ChatRetention, e.logger)
			}

			result, err := importer.Run(cmd.Context(), dump)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created: %d\nupdated: %d\nskipped: %d\n", result.Created, result.Updated, result.Skipped)
			for _, msg := range result.Errors {
				fmt.Fprintf(out, "  error: %s\n", msg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "import into a throwaway in-memory store and only report counts")
	return cmd
}

type createUserFlags struct {
	name      string
	email     string
	password  string
	role      string
	parish    string
	region    string
	termStart string
	termEnd   string
}

func newCreateUserCmd(e *env) *cobra.Command {
	var f createUserFlags

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account directly, including ADMIN accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := models.ParseRole(f.role)
			if !ok {
				return fmt.Errorf("unknown role %q", f.role)
			}
			start, end, err := f.term()
			if err != nil {
				return err
			}

			storage, err := app.OpenStorage(cmd.Context(), e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			accounts := service.NewAccountService(storage.Store.Users, e.logger)
			u, err := accounts.Provision(cmd.Context(), service.SignupInput{
				Name:     f.name,
				Email:    f.email,
				Password: f.password,
				Role:     role,
				Parish:   f.parish,
				Region:   f.region,
			}, start, end)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%s\n", u.Email, u.Role.Label(), u.ID)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "display name")
	fl.StringVar(&f.email, "email", "", "login e-mail")
	fl.StringVar(&f.password, "password", "", "initial password")
	fl.StringVar(&f.role, "role", string(models.RoleAdmin), "role, e.g. ADMIN or NATIONAL_COUNCIL")
	fl.StringVar(&f.parish, "parish", "", "parish")
	fl.StringVar(&f.region, "region", "", "region")
	fl.StringVar(&f.termStart, "term-start", "", "term start ("+dateLayout+"); defaults to today when --term-end is set")
	fl.StringVar(&f.termEnd, "term-end", "", "term end ("+dateLayout+")")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (f createUserFlags) term() (*time.Time, *time.Time, error) {
	if strings.TrimSpace(f.termEnd) == "" {
		if f.termStart != "" {
			return nil, nil, errors.New("--term-start needs --term-end")
		}
		return nil, nil, nil
	}
	end, err := time.Parse(dateLayout, f.termEnd)
	if err != nil {
		return nil, nil, fmt.Errorf("--term-end: %w", err)
	}
	start := time.Now().UTC().Truncate(24 * time.Hour)
	if f.termStart != "" {
		if start, err = time.Parse(dateLayout, f.termStart); err != nil {
			return nil, nil, fmt.Errorf("--term-start: %w", err)
		}
	}
	return &start, &end, nil
}
