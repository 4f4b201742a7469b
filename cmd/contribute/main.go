// @title			Contribute API
// @version		1.0
// @description	Contribution checkout service for the Save Deities site.
// @BasePath		/
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/savedeities/contribute/internal/interfaces/cli/server"
	"github.com/savedeities/contribute/internal/interfaces/cli/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "contribute",
		Short: "Contribute - contribution checkout service",
		Long:  `Contribute runs the HTTP service behind the site's contribution pages: it creates gateway orders, tracks each donor's checkout and confirms payments with the backend.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		version.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
