package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridbugs/slime99-release/internal/artifact"
)

var (
	packageZipMode   string
	packageZipTarget string
	packageZipOut    string
)

var packageZipCmd = &cobra.Command{
	Use:   "package-zip",
	Short: "Package compiled binaries into a platform zip archive",
	Long: `Package the compiled binaries for a target platform into a zip
archive in the current directory. The archive extracts to a single
directory named after the archive.

The graphical frontend is required; the terminal frontend is bundled
only when the build produced it.

Examples:
  slime99-release package-zip --mode release --target linux
  slime99-release package-zip --mode debug --target windows --out slime99-test`,
	RunE: runPackageZip,
}

func init() {
	rootCmd.AddCommand(packageZipCmd)
	packageZipCmd.Flags().StringVarP(&packageZipMode, "mode", "m", envOr("SLIME99_MODE", "release"), "Build mode (debug|release)")
	packageZipCmd.Flags().StringVarP(&packageZipTarget, "target", "t", "", "Target platform (linux|windows)")
	packageZipCmd.Flags().StringVarP(&packageZipOut, "out", "o", "", "Archive name without extension (default <project>-<target>)")
	packageZipCmd.MarkFlagRequired("target")
}

func runPackageZip(cmd *cobra.Command, args []string) error {
	root, cfg, err := loadWorkspace()
	if err != nil {
		return err
	}
	mode, err := artifact.ParseMode(packageZipMode)
	if err != nil {
		return err
	}

	fmt.Printf("📦 Packaging %s [%s, %s]...\n", cfg.Project.Name, packageZipTarget, mode)

	out, err := packageZipArtifact(root, cfg, mode, packageZipTarget, packageZipOut)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Created %s\n", out)
	return nil
}
