package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ihuusa2/ihu-usa-sub002/internal/infra/credentials"
)

// envSecrets names the environment fallback for each provider secret.
var envSecrets = map[string]string{
	credentials.ProviderPayPal: "PAYPAL_CLIENT_SECRET",
	credentials.ProviderGoogle: "GOOGLE_CLIENT_SECRET",
}

func credentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage integration secrets stored in the database",
	}

	set := &cobra.Command{
		Use:   "set <provider>",
		Short: "Store or rotate the secret of a provider (" + strings.Join(credentials.KnownProviders, ", ") + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := strings.ToLower(strings.TrimSpace(args[0]))
			secret, _ := cmd.Flags().GetString("secret")
			if strings.TrimSpace(secret) == "" {
				secret = os.Getenv(envSecrets[provider])
			}
			if strings.TrimSpace(secret) == "" {
				return errors.New("secret is required via --secret or environment")
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			pool, runner, err := connect(ctx, cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			props := map[string]any{"source": "univctl", "rotated_at": time.Now().UTC().Format(time.RFC3339)}
			if err := credentials.NewStore(runner).SetToken(ctx, provider, secret, props); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s secret stored\n", provider)
			return nil
		},
	}
	set.Flags().String("secret", "", "Secret value (defaults to the provider's environment variable)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List providers with a stored secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			pool, runner, err := connect(ctx, cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			entries, err := credentials.NewStore(runner).List(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PROVIDER\tUPDATED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\n", e.Provider, e.UpdatedAt.UTC().Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(set, list)
	return cmd
}
