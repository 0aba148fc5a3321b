package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-admin/internal/apiserver/auth"
	"library-admin/internal/model"
	"library-admin/internal/storage"
)

var createUserRole string

func init() {
	createUserCmd.Flags().StringVar(&createUserRole, "role", string(model.RoleClerk),
		"user role (customer|clerk)")
}

var createUserCmd = &cobra.Command{
	Use:   "create-user <username>",
	Short: "Create an auth user with a masked password prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimSpace(args[0])
		if username == "" {
			return fmt.Errorf("username must not be empty")
		}
		role := model.Role(createUserRole)
		if !role.Valid() {
			return fmt.Errorf("invalid role: %s (must be one of: %s)",
				createUserRole, strings.Join(model.RoleNames(), ", "))
		}

		fmt.Fprint(os.Stderr, "Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if len(password) == 0 {
			return fmt.Errorf("password must not be empty")
		}

		hash, err := auth.HashPassword(string(password))
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()

		user := &model.User{
			Username:     username,
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    time.Now().UTC(),
		}
		if err := store.CreateUser(context.Background(), user); err != nil {
			if err == storage.ErrDuplicate {
				return fmt.Errorf("username already registered: %s", username)
			}
			return fmt.Errorf("create user: %w", err)
		}

		log.Printf("[create-user] Created user: %s (ID: %d, role: %s)", user.Username, user.ID, user.Role)
		return nil
	},
}
