package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"coleccion-arte/config"
	"coleccion-arte/database"
	"coleccion-arte/internal/domain/access"
	"coleccion-arte/internal/domain/users"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// openDB is replaced in tests.
var openDB = database.Open

var bcryptCost = bcrypt.DefaultCost

func newRootCmd() *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:           "coleccionctl",
		Short:         "Maintenance tool for the Colección de Arte backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "Database URL (defaults to DB_URL / DB_* from the environment)")

	connect := func() (*gorm.DB, error) {
		if dsn == "" {
			config.LoadEnv()
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			dsn = cfg.DSN()
		}
		return openDB(dsn)
	}

	root.AddCommand(
		newMigrateCmd(connect),
		newCreateUserCmd(connect),
		newListUsersCmd(connect),
		newHashPasswordCmd(),
	)
	return root
}

func newMigrateCmd(connect func() (*gorm.DB, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Schema is up to date")
			return nil
		},
	}
}

func newCreateUserCmd(connect func() (*gorm.DB, error)) *cobra.Command {
	var (
		email    string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user, e.g. the first administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := access.ParseRole(role)
			if err != nil {
				return err
			}
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}

			db, err := connect()
			if err != nil {
				return err
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
			if err != nil {
				return err
			}
			u := users.User{Email: email, PasswordHash: string(hash), Role: r}
			if err := db.Create(&u).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("user %s already exists", email)
				}
				return err
			}

			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Created %s (%s) with id %d", u.Email, u.Role, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "User email (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Initial password (required)")
	cmd.Flags().StringVarP(&role, "role", "r", string(access.RoleAdmin), "admin, editor, conservador or lector")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newListUsersCmd(connect func() (*gorm.DB, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "Print every user with role and points",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			var rows []users.User
			if err := db.Order("id").Find(&rows).Error; err != nil {
				return err
			}

			data := pterm.TableData{{"ID", "Email", "Rol", "Puntos"}}
			for _, u := range rows {
				data = append(data, []string{
					strconv.FormatUint(uint64(u.ID), 10),
					u.Email,
					color.New(color.FgCyan).Sprint(u.Role),
					strconv.Itoa(u.Points),
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithBoxed().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash, e.g. for MASTER_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcryptCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}
