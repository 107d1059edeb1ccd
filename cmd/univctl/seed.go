package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ihuusa2/ihu-usa-sub002/internal/adapter/repo"
	"github.com/ihuusa2/ihu-usa-sub002/internal/seed"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load site content from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			doc, err := seed.Load(f)
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

			res, err := seed.Apply(ctx, repo.NewContentRepository(runner), doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seed: %d created, %d skipped\n", res.Created, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "seed.yaml", "Seed document")
	return cmd
}
