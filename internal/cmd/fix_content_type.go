package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridbugs/slime99-release/internal/publish"
	"github.com/gridbugs/slime99-release/internal/ui"
)

var (
	fixContentTypeBucket string
	fixContentTypeKey    string
	fixContentTypeNewKey string
	fixContentTypeType   string
	fixContentTypeYes    bool
)

var fixContentTypeCmd = &cobra.Command{
	Use:   "fix-content-type",
	Short: "Repair the content type of an already-uploaded object",
	Long: `Download the object at --key and re-upload it to --new-key with the
corrected content type. The store does not honour in-place metadata
edits, so the full download+reupload round-trip is the only repair
that sticks. Safe to re-run: the end state is the same.

Examples:
  slime99-release fix-content-type --key slime99/main/app.5.wrong-mime.wasm \
      --new-key slime99/main/app.5.wasm`,
	RunE: runFixContentType,
}

func init() {
	rootCmd.AddCommand(fixContentTypeCmd)
	fixContentTypeCmd.Flags().StringVar(&fixContentTypeBucket, "bucket", "", "Bucket holding the object (default from release.yaml)")
	fixContentTypeCmd.Flags().StringVar(&fixContentTypeKey, "key", "", "Existing object key")
	fixContentTypeCmd.Flags().StringVar(&fixContentTypeNewKey, "new-key", "", "Destination key for the repaired object")
	fixContentTypeCmd.Flags().StringVar(&fixContentTypeType, "type", publish.WasmContentType, "Corrected content type")
	fixContentTypeCmd.Flags().BoolVarP(&fixContentTypeYes, "yes", "y", false, "Skip the overwrite confirmation")
	fixContentTypeCmd.MarkFlagRequired("key")
	fixContentTypeCmd.MarkFlagRequired("new-key")
}

func runFixContentType(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	bucket := fixContentTypeBucket
	if bucket == "" {
		if _, cfg, err := loadWorkspace(); err == nil {
			bucket = cfg.Publish.Bucket
		}
	}
	if bucket == "" {
		return fmt.Errorf("no bucket configured (set publish.bucket in release.yaml or use --bucket)")
	}

	store, err := publish.NewGCSStore(ctx, bucket)
	if err != nil {
		return fmt.Errorf("%v: %w", err, publish.ErrPublishFailed)
	}
	publisher := publish.NewPublisher(store)

	if !fixContentTypeYes {
		exists, err := publisher.Exists(ctx, fixContentTypeNewKey)
		if err != nil {
			return err
		}
		if exists {
			ok, err := ui.Confirm(fmt.Sprintf("Overwrite existing object %s", fixContentTypeNewKey))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted")
				return nil
			}
		}
	}

	fmt.Printf("🔧 Repairing %s -> %s [%s]...\n", fixContentTypeKey, fixContentTypeNewKey, fixContentTypeType)
	if err := publisher.RepairContentType(ctx, fixContentTypeKey, fixContentTypeNewKey, fixContentTypeType); err != nil {
		return err
	}

	fmt.Println("✅ Content type repaired")
	return nil
}
