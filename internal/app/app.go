package app

import (
	"github.com/spf13/cobra"

	"github.com/convlint/convlint/internal/cli"
)

func BuildRoot() *cobra.Command {
	root := &cobra.Command{Use: "convlint", Short: "Linter for conversational fulfillment code"}
	cli.AddCommands(root)
	return root
}
