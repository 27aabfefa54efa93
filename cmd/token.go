package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/project-management/internal/auth"
	userPostgres "github.com/frahmantamala/project-management/internal/user/postgres"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token [user-id]",
	Short: "Issue a bearer token for a seeded user",
	Long:  `Issue a signed bearer token for an existing user, for local development against the API.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		pool, err := initPool(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("failed to init pgx pool: %v", err)
		}
		defer pool.Close()

		u, err := userPostgres.NewRepository(pool).FindByID(ctx, args[0])
		if err != nil {
			log.Fatalf("failed to find user %s: %v", args[0], err)
		}

		ttl := cfg.Security.AccessTokenDuration
		if tokenTTL > 0 {
			ttl = tokenTTL
		}

		token, err := auth.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, ttl).Issue(u.ID, u.Role)
		if err != nil {
			log.Fatalf("failed to issue token: %v", err)
		}
		fmt.Println(token)
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (overrides security.access_token_duration)")

	rootCmd.AddCommand(tokenCmd)
}
