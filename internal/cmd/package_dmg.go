package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridbugs/slime99-release/internal/archive"
	"github.com/gridbugs/slime99-release/internal/artifact"
)

var (
	packageDmgMode string
	packageDmgOut  string
)

var packageDmgCmd = &cobra.Command{
	Use:   "package-dmg",
	Short: "Package the macOS app bundle into a disk image",
	Long: `Stage the macOS .app bundle (with the Applications symlink for
drag-install) and compress it into a .dmg in the current directory.
Requires hdiutil, so this only runs on macOS.

Examples:
  slime99-release package-dmg --mode release
  slime99-release package-dmg --mode debug --out slime99-test`,
	RunE: runPackageDmg,
}

func init() {
	rootCmd.AddCommand(packageDmgCmd)
	packageDmgCmd.Flags().StringVarP(&packageDmgMode, "mode", "m", envOr("SLIME99_MODE", "release"), "Build mode (debug|release)")
	packageDmgCmd.Flags().StringVarP(&packageDmgOut, "out", "o", "", "Image name without extension (default <project>)")
}

func runPackageDmg(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	root, cfg, err := loadWorkspace()
	if err != nil {
		return err
	}
	mode, err := artifact.ParseMode(packageDmgMode)
	if err != nil {
		return err
	}

	fmt.Printf("📦 Packaging %s [macos, %s]...\n", cfg.Project.Name, mode)

	out, err := packageDmgArtifact(ctx, root, cfg, archive.HdiutilImager{}, mode, packageDmgOut)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Created %s\n", out)
	return nil
}
