package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ihuusa2/ihu-usa-sub002/internal/adapter/repo"
	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/middleware"
	"github.com/ihuusa2/ihu-usa-sub002/internal/validation"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage back-office users",
	}
	cmd.AddCommand(createAdminCmd(), setRoleCmd())
	return cmd
}

func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an Admin user, or promote and reset the password of an existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = os.Getenv("UNIVCTL_ADMIN_PASSWORD")
			}
			in := domain.UserInput{Name: name, Email: email, Role: string(domain.UserRoleAdmin), Password: password}
			in.Normalize()
			if in.Name == "" {
				in.Name = in.Email
			}
			if verr := validation.Struct(&in); !verr.Empty() {
				return verr
			}
			if in.Password == "" {
				return errors.New("password is required (--password or UNIVCTL_ADMIN_PASSWORD)")
			}
			hash, err := middleware.HashPassword(in.Password)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			pool, runner, err := connect(ctx, cmd)
			if err != nil {
				return err
			}
			defer pool.Close()
			users := repo.NewUserRepository(runner)

			existing, err := users.GetByEmail(ctx, in.Email)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				u := in.ToUser()
				u.PasswordHash = &hash
				if err := users.Create(ctx, &u); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Email, u.ID)
				return nil
			case err != nil:
				return err
			}
			existing.Role = domain.UserRoleAdmin
			if err := users.Update(ctx, existing); err != nil {
				return err
			}
			if err := users.SetPassword(ctx, existing.ID, hash); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "promoted %s (%s) to Admin\n", existing.Email, existing.ID)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Admin email address")
	cmd.Flags().String("name", "", "Display name (defaults to the email)")
	cmd.Flags().String("password", "", "Login password (defaults to UNIVCTL_ADMIN_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func setRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-role",
		Short: "Change the role of an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			roleFlag, _ := cmd.Flags().GetString("role")
			role, ok := domain.ParseUserRole(roleFlag)
			if !ok {
				return fmt.Errorf("unsupported role %q (Admin, Staff, User)", roleFlag)
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			pool, runner, err := connect(ctx, cmd)
			if err != nil {
				return err
			}
			defer pool.Close()
			users := repo.NewUserRepository(runner)

			u, err := users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
			if err != nil {
				return fmt.Errorf("lookup %s: %w", email, err)
			}
			u.Role = role
			if err := users.Update(ctx, u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().String("email", "", "User email address")
	cmd.Flags().String("role", "", "New role: Admin, Staff or User")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
