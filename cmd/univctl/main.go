// Command univctl is the operator CLI for the university back end:
// schema migrations, admin bootstrap, integration secrets and content seeds.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ihuusa2/ihu-usa-sub002/internal/infra"
)

var Version = "dev"

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "univctl",
		Short:         "Operate the university website back end",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("database-url", "", "Postgres URL (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Timeout for database work")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(credentialsCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func databaseURL(cmd *cobra.Command) (string, error) {
	url, _ := cmd.Flags().GetString("database-url")
	url = strings.TrimSpace(url)
	if url == "" {
		url = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if url == "" {
		return "", errors.New("DATABASE_URL is required (flag --database-url or environment)")
	}
	return url, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

// connect opens a pool and wraps it in the marker-checking SQL runner.
func connect(ctx context.Context, cmd *cobra.Command) (*pgxpool.Pool, *infra.SQLRunner, error) {
	url, err := databaseURL(cmd)
	if err != nil {
		return nil, nil, err
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	logger := infra.NewLogger(os.Getenv("APP_ENV"), "univctl")
	return pool, infra.NewSQLRunner(pool, logger), nil
}
