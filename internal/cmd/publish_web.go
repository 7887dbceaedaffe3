package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gridbugs/slime99-release/internal/publish"
	"github.com/gridbugs/slime99-release/internal/webbuild"
)

var (
	publishWebBranch   string
	publishWebRevision string
	publishWebBucket   string
)

var publishWebCmd = &cobra.Command{
	Use:   "publish-web",
	Short: "Build, stage and publish the web deployment",
	Long: `Run the web build toolchain, stage its output under
<project>/<branch>/, upload the staged tree as a single archive, and
upload each build output file individually with the correct content
type (.wasm must be served as application/wasm or browsers refuse to
stream-compile it).

The revision qualifies web artifact keys (app.<revision>.wasm) so
updated builds bypass stale cached copies.

Examples:
  slime99-release publish-web --branch main --revision 5
  slime99-release publish-web --branch feature-x --revision 12 --bucket games-test`,
	RunE: runPublishWeb,
}

func init() {
	rootCmd.AddCommand(publishWebCmd)
	publishWebCmd.Flags().StringVarP(&publishWebBranch, "branch", "b", "", "Deployment branch (default from release.yaml)")
	publishWebCmd.Flags().StringVarP(&publishWebRevision, "revision", "r", envOr("SLIME99_REVISION", ""), "Cache-busting revision identifier")
	publishWebCmd.Flags().StringVar(&publishWebBucket, "bucket", "", "Destination bucket (default from release.yaml)")
}

func runPublishWeb(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	root, cfg, err := loadWorkspace()
	if err != nil {
		return err
	}
	branch := publishWebBranch
	if branch == "" {
		branch = cfg.Publish.Branch
	}
	bucket := publishWebBucket
	if bucket == "" {
		bucket = cfg.Publish.Bucket
	}
	if bucket == "" {
		return fmt.Errorf("no bucket configured (set publish.bucket in release.yaml or use --bucket)")
	}
	if publishWebRevision == "" {
		return fmt.Errorf("no revision given (use --revision or SLIME99_REVISION)")
	}

	fmt.Printf("🔧 Building web deployment [%s]...\n", branch)

	builder := webbuild.ExecBuilder{
		Dir:     filepath.Join(root, cfg.Build.WebDir),
		Command: cfg.Build.WebBuildCommand,
	}
	distDir := filepath.Join(root, cfg.Build.WebDistDir)
	stager := webbuild.NewStager(cfg.Project.Name, distDir, builder)

	archivePath, err := stager.Stage(ctx, branch)
	if err != nil {
		return err
	}

	store, err := publish.NewGCSStore(ctx, bucket)
	if err != nil {
		return fmt.Errorf("%v: %w", err, publish.ErrPublishFailed)
	}
	publisher := publish.NewPublisher(store)

	fmt.Printf("📤 Uploading %s to %s...\n", archivePath, bucket)
	if err := publisher.PublishTree(ctx, archivePath); err != nil {
		return err
	}

	target := publish.Target{
		Project:  cfg.Project.Name,
		Branch:   branch,
		Revision: publishWebRevision,
	}
	fmt.Printf("📤 Uploading build files to %s/%s/%s...\n", bucket, target.Project, target.Branch)
	if err := publisher.PublishDir(ctx, distDir, target, publish.DefaultContentTypeRules()); err != nil {
		return err
	}

	fmt.Println("✅ Web deployment published")
	return nil
}
