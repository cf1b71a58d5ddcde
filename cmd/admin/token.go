package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// newTokenCmd mints a bearer token signed with JWT_SECRET, standing in for
// the identity provider during local development.
func newTokenCmd(a *app) *cobra.Command {
	var (
		userID   string
		username string
		email    string
		admin    bool
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Environment.IsProduction() {
				return fmt.Errorf("refusing to mint tokens in production")
			}
			id := uuid.New()
			if userID != "" {
				parsed, err := uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("invalid --user-id: %w", err)
				}
				id = parsed
			}

			claims := &types.TokenClaims{
				RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
				},
				UserID:   id,
				Username: username,
				Email:    email,
				IsAdmin:  admin,
			}
			token, err := service.NewAuthService(nil, a.cfg.JWTSecret, a.log).GenerateToken(claims)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "user id (random when empty)")
	cmd.Flags().StringVar(&username, "username", "dev", "username claim")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant administrator rights")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
