package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/schmitthub/stacksmith-docker/internal/output"
	"github.com/schmitthub/stacksmith-docker/internal/stacksmith"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a stack and write its generated Dockerfile",
		RunE:  runGenerate,
	}

	cmd.Flags().StringVar(&rootOpts.OutputDir, "output", "", "Output directory for the Dockerfile")
	cmd.Flags().StringVar(&rootOpts.Component, "component", "", "Component entity id")
	cmd.Flags().StringVar(&rootOpts.ComponentOperator, "component-operator", "latest", "Component version operator (latest, dev, =, >, >=, <, <=, ~>)")
	cmd.Flags().StringVar(&rootOpts.ComponentVersion, "component-version", "", "Component version number")
	cmd.Flags().StringVar(&rootOpts.OS, "os", "", "Operating system entity id")
	cmd.Flags().StringVar(&rootOpts.OSOperator, "os-operator", "latest", "OS version operator")
	cmd.Flags().StringVar(&rootOpts.OSVersion, "os-version", "", "OS version number")
	cmd.Flags().StringVar(&rootOpts.Flavor, "flavor", "", "Flavor id to request")

	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	opts, err := mergedOptions(cmd)
	if err != nil {
		return err
	}

	logger := output.NewLogger(cmd.ErrOrStderr(), opts.Debug)
	client := stacksmith.NewClient(opts.APIBase, nil, logger)
	ctx := context.Background()

	component := stacksmith.RequirementFrom(logger, opts.Component, opts.ComponentOperator, opts.ComponentVersion)
	osReq := stacksmith.RequirementFrom(logger, opts.OS, opts.OSOperator, opts.OSVersion)

	stack, err := client.CreateStack(ctx, []stacksmith.Requirement{component}, &osReq, opts.Flavor)
	if err != nil {
		return fmt.Errorf("Stacksmith API did not produce a valid stack reference: %w", err)
	}
	logger.Debug("stack created", "id", stack.ID, "url", stack.StackURL)

	dockerfile, err := client.FetchDockerfile(ctx, stack)
	if err != nil {
		return fmt.Errorf("fetch Dockerfile for stack %s: %w", stack.ID, err)
	}
	if dockerfile == "" {
		return fmt.Errorf("Stacksmith API produced an empty Dockerfile for stack %s", stack.ID)
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	target := filepath.Join(opts.OutputDir, "Dockerfile")
	if err := confirmWrite(cmd, opts.DangerousInline, target); err != nil {
		return err
	}
	if err := os.WriteFile(target, []byte(dockerfile), 0o644); err != nil {
		return fmt.Errorf("write Dockerfile: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote Dockerfile for stack %s: %s\n", stack.ID, target)
	return nil
}
