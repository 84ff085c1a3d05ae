package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"text/tabwriter"

	"toolrental-backend/internal/config"
	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/migrations"
	"toolrental-backend/internal/repository/postgres"
	"toolrental-backend/internal/security"
	"toolrental-backend/internal/service"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

// connect loads the configuration and opens a verified database handle.
func connect(ctx context.Context, configPath string) (*config.Config, *sql.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return cfg, db, nil
}

func migrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := connect(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := migrations.NewRunner(db).Up(cmd.Context())
			for _, m := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", m)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending migrations.")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := connect(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer db.Close()

			statuses, err := migrations.NewRunner(db).Status(cmd.Context())
			if err != nil {
				return err
			}
			return writeStatuses(cmd.OutOrStdout(), statuses)
		},
	})

	return cmd
}

func writeStatuses(out io.Writer, statuses []migrations.Status) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tSTATE")
	for _, st := range statuses {
		state := "pending"
		switch {
		case st.Dirty:
			state = "dirty"
		case st.Applied:
			state = "applied"
		}
		fmt.Fprintf(w, "%04d\t%s\t%s\n", st.Version, st.Name, state)
	}
	return w.Flush()
}

func createEmployeeCmd(configPath *string) *cobra.Command {
	var (
		e        domain.Employee
		role     string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create-employee",
		Short: "Create an employee account, e.g. the first manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := connect(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer db.Close()

			store := postgres.NewStore(db)
			tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
			users := service.NewUserService(store, store.Repos(), tokens, cfg.ServiceSettings())

			e.Role = domain.Role(role)
			if err := users.CreateEmployee(cmd.Context(), &e, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created employee %d (%s, %s)\n", e.ID, e.Login, e.Role)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&e.FirstName, "first-name", "", "First name")
	f.StringVar(&e.LastName, "last-name", "", "Last name")
	f.StringVar(&e.PESEL, "pesel", "", "PESEL number (11 digits)")
	f.StringVar(&e.Address, "address", "", "Address")
	f.StringVar(&e.Phone, "phone", "", "Phone number")
	f.StringVar(&e.Email, "email", "", "E-mail address")
	f.StringVar(&e.Login, "login", "", "Login")
	f.StringVar(&password, "password", "", "Initial password")
	f.StringVar(&role, "role", string(domain.RoleManager), "Role: KIEROWNIK, MAGAZYNIER or SERWISANT")
	for _, name := range []string{"first-name", "last-name", "pesel", "address", "phone", "email", "login", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
