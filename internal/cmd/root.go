package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slime99-release",
	Short: "Package and publish slime99 release artifacts",
	Long: `slime99-release packages compiled build outputs into distributable
bundles (platform zips, a macOS disk image, a web deployment tree) and
publishes the web build to the object store with correct content-type
metadata.

It expects binaries to already exist under target/<mode>/ and a
release.yaml at the project root.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}
