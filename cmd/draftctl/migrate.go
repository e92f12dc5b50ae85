package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/store"
)

func newMigrateCmd() *cobra.Command {
	var from, to, fromPath, toPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the draft collection between store backends",
		Long: `Copy the drafts_v1 value from one store backend to another.

Backends not given a path reuse store.path from the configuration. S3 and
compression settings always come from the configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from == "" || to == "" {
				return errors.New("both --from and --to are required")
			}

			src := config.AppConfig.Store
			src.Backend = from
			if fromPath != "" {
				src.Path = fromPath
			}

			dst := config.AppConfig.Store
			dst.Backend = to
			if toPath != "" {
				dst.Path = toPath
			}

			n, err := migrate(cmd, src, dst)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d drafts from %s to %s\n", out.pass.Render("migrated"), n, from, to)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source backend (memory, file, sqlite, s3)")
	cmd.Flags().StringVar(&to, "to", "", "destination backend (memory, file, sqlite, s3)")
	cmd.Flags().StringVar(&fromPath, "from-path", "", "source store path")
	cmd.Flags().StringVar(&toPath, "to-path", "", "destination store path")

	return cmd
}

func migrate(cmd *cobra.Command, src, dst config.StoreConfig) (int, error) {
	ctx := cmd.Context()

	srcBackend, srcCloser, err := store.Open(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("opening source: %w", err)
	}
	defer srcCloser.Close()

	dstBackend, dstCloser, err := store.Open(ctx, dst)
	if err != nil {
		return 0, fmt.Errorf("opening destination: %w", err)
	}
	defer dstCloser.Close()

	drafts, err := store.NewDraftStore(srcBackend).List(ctx)
	if err != nil {
		return 0, err
	}

	value, err := srcBackend.Get(ctx, config.DraftsKey)
	if errors.Is(err, store.ErrNotFound) {
		value = []byte("[]")
	} else if err != nil {
		return 0, err
	}

	if err := dstBackend.Put(ctx, config.DraftsKey, value); err != nil {
		return 0, fmt.Errorf("writing destination: %w", err)
	}
	return len(drafts), nil
}
