package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schmitthub/stacksmith-docker/internal/output"
	"github.com/schmitthub/stacksmith-docker/internal/stacksmith"
)

func newComponentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List components known to the Stacksmith catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListEntities(cmd, stacksmith.Component)
		},
	}
}

func newOsesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "oses",
		Short: "List operating systems known to the Stacksmith catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListEntities(cmd, stacksmith.OperatingSystem)
		},
	}
}

func runListEntities(cmd *cobra.Command, category stacksmith.Category) error {
	opts, err := mergedOptions(cmd)
	if err != nil {
		return err
	}

	logger := output.NewLogger(cmd.ErrOrStderr(), opts.Debug)
	client := stacksmith.NewClient(opts.APIBase, nil, logger)

	set, err := client.ListEntities(context.Background(), category)
	if err != nil {
		return fmt.Errorf("list %ss: %w", category, err)
	}

	for _, entity := range set.Entities() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", entity.ID(), entity.ShortString())
	}
	return nil
}

func newDependenciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dependencies <component-id>",
		Short: "List dependency ids for a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListIDs(cmd, args[0], func(cmd *cobra.Command, client *stacksmith.Client, id string) ([]string, error) {
				return client.Dependencies(cmd.Context(), id)
			})
		},
	}
}

func newFlavorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flavors <component-id>",
		Short: "List flavor ids for a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListIDs(cmd, args[0], func(cmd *cobra.Command, client *stacksmith.Client, id string) ([]string, error) {
				return client.Flavors(cmd.Context(), id)
			})
		},
	}
}

func runListIDs(cmd *cobra.Command, id string, fetch func(*cobra.Command, *stacksmith.Client, string) ([]string, error)) error {
	opts, err := mergedOptions(cmd)
	if err != nil {
		return err
	}

	logger := output.NewLogger(cmd.ErrOrStderr(), opts.Debug)
	client := stacksmith.NewClient(opts.APIBase, nil, logger)

	ids, err := fetch(cmd, client, id)
	if err != nil {
		return fmt.Errorf("list ids for %s: %w", id, err)
	}

	for _, entry := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), entry)
	}
	return nil
}
