package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schmitthub/stacksmith-docker/internal/build"
	"github.com/schmitthub/stacksmith-docker/internal/cmd"
	"github.com/schmitthub/stacksmith-docker/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := cmd.NewRootCmd(build.Version, build.Date)
	if _, err := rootCmd.ExecuteC(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	statePath, stateErr := update.DefaultStatePath()
	if stateErr != nil {
		fmt.Fprintf(os.Stderr, "warning: update check: %v\n", stateErr)
		return nil
	}

	result, checkErr := update.CheckForUpdate(ctx, statePath, build.Version, "schmitthub/stacksmith-docker")
	if checkErr != nil || result == nil || !result.UpdateAvailable {
		return nil
	}

	fmt.Fprintf(os.Stderr,
		"\nUpdate available: %s -> %s\nRelease notes: %s\n",
		result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
	)
	return nil
}
