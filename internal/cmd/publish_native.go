package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gridbugs/slime99-release/internal/archive"
	"github.com/gridbugs/slime99-release/internal/artifact"
	"github.com/gridbugs/slime99-release/internal/publish"
)

var (
	publishNativeMode   string
	publishNativeTarget string
	publishNativeBranch string
	publishNativeBucket string
)

var publishNativeCmd = &cobra.Command{
	Use:   "publish-native",
	Short: "Package a native artifact and upload it to the object store",
	Long: `Package the given target platform (zip for linux/windows, disk
image for macos) and upload the result under <project>/<branch>/<filename>.
The local artifact is kept in the working directory, byte-identical to
the published object.

Examples:
  slime99-release publish-native --mode release --target linux --branch main
  slime99-release publish-native --mode release --target macos --branch main`,
	RunE: runPublishNative,
}

func init() {
	rootCmd.AddCommand(publishNativeCmd)
	publishNativeCmd.Flags().StringVarP(&publishNativeMode, "mode", "m", envOr("SLIME99_MODE", "release"), "Build mode (debug|release)")
	publishNativeCmd.Flags().StringVarP(&publishNativeTarget, "target", "t", "", "Target platform (linux|windows|macos)")
	publishNativeCmd.Flags().StringVarP(&publishNativeBranch, "branch", "b", "", "Deployment branch (default from release.yaml)")
	publishNativeCmd.Flags().StringVar(&publishNativeBucket, "bucket", "", "Destination bucket (default from release.yaml)")
	publishNativeCmd.MarkFlagRequired("target")
}

func runPublishNative(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	root, cfg, err := loadWorkspace()
	if err != nil {
		return err
	}
	mode, err := artifact.ParseMode(publishNativeMode)
	if err != nil {
		return err
	}
	branch := publishNativeBranch
	if branch == "" {
		branch = cfg.Publish.Branch
	}
	bucket := publishNativeBucket
	if bucket == "" {
		bucket = cfg.Publish.Bucket
	}
	if bucket == "" {
		return fmt.Errorf("no bucket configured (set publish.bucket in release.yaml or use --bucket)")
	}

	fmt.Printf("📦 Packaging %s [%s, %s]...\n", cfg.Project.Name, publishNativeTarget, mode)

	var artifactPath string
	if publishNativeTarget == "macos" {
		artifactPath, err = packageDmgArtifact(ctx, root, cfg, archive.HdiutilImager{}, mode, "")
	} else {
		artifactPath, err = packageZipArtifact(root, cfg, mode, publishNativeTarget, "")
	}
	if err != nil {
		return err
	}

	store, err := publish.NewGCSStore(ctx, bucket)
	if err != nil {
		return fmt.Errorf("%v: %w", err, publish.ErrPublishFailed)
	}
	publisher := publish.NewPublisher(store)

	target := publish.Target{Project: cfg.Project.Name, Branch: branch}
	key := target.NativeKey(filepath.Base(artifactPath))

	fmt.Printf("📤 Uploading %s to %s/%s...\n", artifactPath, bucket, key)
	if err := publisher.PublishFile(ctx, artifactPath, key, ""); err != nil {
		return err
	}

	fmt.Println("✅ Native artifact published")
	return nil
}
