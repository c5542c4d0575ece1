package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schmitthub/stacksmith-docker/internal/config"
)

type runtimeOptions struct {
	ConfigPath        string
	APIBase           string
	OutputDir         string
	Debug             bool
	DangerousInline   bool
	Component         string
	ComponentOperator string
	ComponentVersion  string
	OS                string
	OSOperator        string
	OSVersion         string
	Flavor            string
}

var rootOpts runtimeOptions

func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	showVersion := false

	cmd := &cobra.Command{
		Use:           "stacksmith-docker",
		Short:         "Build Dockerfiles with the Bitnami Stacksmith service",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprint(cmd.OutOrStdout(), formatVersion(buildVersion, buildDate))
				return nil
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&rootOpts.ConfigPath, "config", "f", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&rootOpts.APIBase, "api-base", "", "Stacksmith API root URL")
	cmd.PersistentFlags().BoolVar(&rootOpts.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&rootOpts.DangerousInline, "dangerous-inline", false, "Skip write confirmation prompts and perform writes inline")
	cmd.Flags().BoolVar(&showVersion, "version", false, "Print CLI version")

	cmd.AddCommand(newVersionCmd(buildVersion, buildDate))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newComponentsCmd())
	cmd.AddCommand(newOsesCmd())
	cmd.AddCommand(newDependenciesCmd())
	cmd.AddCommand(newFlavorsCmd())

	return cmd
}

func mergedOptions(cmd *cobra.Command) (runtimeOptions, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return runtimeOptions{}, fmt.Errorf("get cwd: %w", err)
	}

	merged := runtimeOptions{
		OutputDir:         filepath.Join(cwd, "stacksmith-deploy"),
		ComponentOperator: "latest",
		OSOperator:        "latest",
	}

	if rootOpts.ConfigPath != "" {
		fileCfg, err := config.Load(rootOpts.ConfigPath)
		if err != nil {
			return runtimeOptions{}, err
		}

		if fileCfg.APIBase != "" {
			merged.APIBase = fileCfg.APIBase
		}
		if fileCfg.OutputDir != "" {
			merged.OutputDir = fileCfg.OutputDir
		}
		if fileCfg.Debug != nil {
			merged.Debug = *fileCfg.Debug
		}
		if fileCfg.Component != "" {
			merged.Component = fileCfg.Component
		}
		if fileCfg.ComponentOperator != "" {
			merged.ComponentOperator = fileCfg.ComponentOperator
		}
		if fileCfg.ComponentVersion != "" {
			merged.ComponentVersion = fileCfg.ComponentVersion
		}
		if fileCfg.OS != "" {
			merged.OS = fileCfg.OS
		}
		if fileCfg.OSOperator != "" {
			merged.OSOperator = fileCfg.OSOperator
		}
		if fileCfg.OSVersion != "" {
			merged.OSVersion = fileCfg.OSVersion
		}
		if fileCfg.Flavor != "" {
			merged.Flavor = fileCfg.Flavor
		}
	}

	if err := applyEnvOverrides(&merged); err != nil {
		return runtimeOptions{}, err
	}

	if cmd.Flags().Changed("api-base") {
		merged.APIBase = rootOpts.APIBase
	}
	if cmd.Flags().Changed("debug") {
		merged.Debug = rootOpts.Debug
	}
	if cmd.Flags().Changed("dangerous-inline") {
		merged.DangerousInline = rootOpts.DangerousInline
	}
	if flagChanged(cmd, "output") {
		merged.OutputDir = rootOpts.OutputDir
	}
	if flagChanged(cmd, "component") {
		merged.Component = rootOpts.Component
	}
	if flagChanged(cmd, "component-operator") {
		merged.ComponentOperator = rootOpts.ComponentOperator
	}
	if flagChanged(cmd, "component-version") {
		merged.ComponentVersion = rootOpts.ComponentVersion
	}
	if flagChanged(cmd, "os") {
		merged.OS = rootOpts.OS
	}
	if flagChanged(cmd, "os-operator") {
		merged.OSOperator = rootOpts.OSOperator
	}
	if flagChanged(cmd, "os-version") {
		merged.OSVersion = rootOpts.OSVersion
	}
	if flagChanged(cmd, "flavor") {
		merged.Flavor = rootOpts.Flavor
	}

	merged.APIBase = strings.TrimSpace(merged.APIBase)
	merged.OutputDir = strings.TrimSpace(merged.OutputDir)
	merged.Component = strings.TrimSpace(merged.Component)
	merged.ComponentOperator = strings.TrimSpace(merged.ComponentOperator)
	merged.ComponentVersion = strings.TrimSpace(merged.ComponentVersion)
	merged.OS = strings.TrimSpace(merged.OS)
	merged.OSOperator = strings.TrimSpace(merged.OSOperator)
	merged.OSVersion = strings.TrimSpace(merged.OSVersion)
	merged.Flavor = strings.TrimSpace(merged.Flavor)

	return merged, nil
}

// flagChanged tolerates flags that only some subcommands register.
func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

func applyEnvOverrides(opts *runtimeOptions) error {
	if value, ok := getenvTrim("STACKSMITH_DOCKER_API_BASE"); ok {
		opts.APIBase = value
	}
	if value, ok := getenvTrim("STACKSMITH_DOCKER_OUTPUT"); ok {
		opts.OutputDir = value
	}
	if value, ok := getenvTrim("STACKSMITH_DOCKER_COMPONENT"); ok {
		opts.Component = value
	}
	if value, ok := getenvTrim("STACKSMITH_DOCKER_COMPONENT_OPERATOR"); ok {
		opts.ComponentOperator = value
	}
	if value, ok := getenvTrim("STACKSMITH_DOCKER_COMPONENT_VERSION"); ok {
		opts.ComponentVersion = value
	}
	if value, ok := getenvTrim("STACKSMITH_DOCKER_OS"); ok {
		opts.OS = value
	}
	if value, ok := getenvTrim("STACKSMITH_DOCKER_OS_OPERATOR"); ok {
		opts.OSOperator = value
	}
	if value, ok := getenvTrim("STACKSMITH_DOCKER_OS_VERSION"); ok {
		opts.OSVersion = value
	}
	if value, ok := getenvTrim("STACKSMITH_DOCKER_FLAVOR"); ok {
		opts.Flavor = value
	}

	if value, ok := getenvTrim("STACKSMITH_DOCKER_DEBUG"); ok {
		parsed, err := parseBoolEnv("STACKSMITH_DOCKER_DEBUG", value)
		if err != nil {
			return err
		}
		opts.Debug = parsed
	}
	if value, ok := getenvTrim("STACKSMITH_DOCKER_DANGEROUS_INLINE"); ok {
		parsed, err := parseBoolEnv("STACKSMITH_DOCKER_DANGEROUS_INLINE", value)
		if err != nil {
			return err
		}
		opts.DangerousInline = parsed
	}
	return nil
}

func getenvTrim(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func parseBoolEnv(name, raw string) (bool, error) {
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s as bool: %w", name, err)
	}
	return parsed, nil
}
