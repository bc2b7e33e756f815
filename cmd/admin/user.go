package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/proyecthub/proyecthub-api/internal/database"
	"github.com/proyecthub/proyecthub-api/internal/repository"
	"github.com/proyecthub/proyecthub-api/internal/services"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage administrator accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username> [password]",
	Short: "Create an administrator",
	Long: "Create an administrator. Without a password argument the password is taken from\n" +
		passwordEnv + " or, failing that, read as one line from stdin.",
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := resolvePassword(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.DatabaseURL, cfg.DatabaseLogging)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		userSvc := services.NewUserService(repository.NewUserRepository(db))
		user, err := userSvc.Create(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", user.ID, user.Username)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List administrators",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.DatabaseURL, cfg.DatabaseLogging)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		users, err := services.NewUserService(repository.NewUserRepository(db)).List(cmd.Context())
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", u.ID, u.Username)
		}
		return nil
	},
}

const passwordEnv = "ADMIN_PASSWORD"

func resolvePassword(args []string, stdin io.Reader) (string, error) {
	if len(args) > 1 {
		return args[1], nil
	}
	if pw := os.Getenv(passwordEnv); pw != "" {
		return pw, nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required: pass it as an argument, set " + passwordEnv + " or pipe it on stdin")
	}
	return password, nil
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
}
