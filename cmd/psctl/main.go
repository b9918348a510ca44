package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:           "psctl",
		Short:         "PrestaShop web service CLI",
		Long:          `psctl reads and deletes PrestaShop resources through the web service.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	g.bind(rootCmd)

	rootCmd.AddCommand(resourcesCmd(g))
	rootCmd.AddCommand(getCmd(g))
	rootCmd.AddCommand(findCmd(g))
	rootCmd.AddCommand(schemaCmd(g))
	rootCmd.AddCommand(deleteCmd(g))

	return rootCmd
}
