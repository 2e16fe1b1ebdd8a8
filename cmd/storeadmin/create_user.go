package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"store-manager/internal/model"

	"github.com/spf13/cobra"
)

type userEnsurer interface {
	EnsureUser(ctx context.Context, req *model.RegisterRequest) (*model.User, bool, error)
}

func newCreateUserCmd(a *app) *cobra.Command {
	var (
		req   model.RegisterRequest
		roles []string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account unless the username is already taken",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseRoles(roles)
			if err != nil {
				return err
			}
			req.Roles = parsed
			return runCreateUser(cmd.Context(), a.authService(), &req, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "account username")
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "account holder's full name")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringSliceVar(&roles, "role", []string{string(model.RoleAdmin)}, "role to grant (ADMIN, MANAGER, CUSTOMER); repeatable")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("full-name")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func parseRoles(names []string) ([]model.Role, error) {
	roles := make([]model.Role, 0, len(names))
	for _, name := range names {
		role, err := model.ParseRole(strings.ToUpper(strings.TrimSpace(name)))
		if err != nil {
			return nil, fmt.Errorf("invalid role %q: %w", name, err)
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func runCreateUser(ctx context.Context, users userEnsurer, req *model.RegisterRequest, out io.Writer) error {
	user, created, err := users.EnsureUser(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", req.Username, err)
	}

	if created {
		fmt.Fprintf(out, "created user %s (id %d)\n", user.Username, user.ID)
	} else {
		fmt.Fprintf(out, "user %s already exists (id %d)\n", user.Username, user.ID)
	}
	return nil
}
