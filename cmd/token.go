package cmd

import (
	"fmt"

	"github.com/amirphl/affiliate-rhonat/app/services"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	tokenUserID string
	tokenRole   string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for the reporting API",
	Long: `Signs an access token with the configured JWT key, shaped like the tokens the
hosted auth provider issues. Intended for operators and local testing.

Examples:
  affiliate token --user-id 3f0c5e0e-8a3b-4c1e-9c55-2b8d0f6f1a10
  affiliate token --user-id 3f0c5e0e-8a3b-4c1e-9c55-2b8d0f6f1a10 --role admin`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "user id placed in the sub claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "", "application role (defaults to JWT_DEFAULT_ROLE)")
	_ = tokenCmd.MarkFlagRequired("user-id")
}

func runToken(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(tokenUserID)
	if err != nil {
		return fmt.Errorf("invalid --user-id: %w", err)
	}
	role := tokenRole
	if role == "" {
		role = cfg.JWT.DefaultRole
	}

	if !cfg.JWT.Enabled() {
		return fmt.Errorf("no JWT key configured")
	}

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.DefaultRole,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	token, err := tokenService.GenerateAccessToken(userID, role)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
