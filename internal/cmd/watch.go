package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gridbugs/slime99-release/internal/watch"
	"github.com/gridbugs/slime99-release/internal/webbuild"
)

var watchBranch string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-stage the web deployment bundle on source changes",
	Long: `Watch the web source directory and rebuild + re-stage the web
deployment bundle whenever a file changes. Nothing is uploaded; this is
a local dev loop for checking what a publish-web run would ship.

Stops on ctrl-c.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchBranch, "branch", "b", "", "Branch used for the staged path layout (default from release.yaml)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, cfg, err := loadWorkspace()
	if err != nil {
		return err
	}
	branch := watchBranch
	if branch == "" {
		branch = cfg.Publish.Branch
	}

	webDir := filepath.Join(root, cfg.Build.WebDir)
	builder := webbuild.ExecBuilder{Dir: webDir, Command: cfg.Build.WebBuildCommand}
	stager := webbuild.NewStager(cfg.Project.Name, filepath.Join(root, cfg.Build.WebDistDir), builder)

	restage := func() {
		out, err := stager.Stage(ctx, branch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Staging failed: %v\n", err)
			return
		}
		fmt.Printf("✅ Staged %s\n", out)
	}

	watcher, err := watch.NewWatcher(watch.DefaultConfig(webDir))
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Printf("👀 Watching %s [%s]...\n", webDir, branch)
	restage()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped")
			return nil
		case <-watcher.Changes():
			restage()
		case err := <-watcher.Errors():
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
