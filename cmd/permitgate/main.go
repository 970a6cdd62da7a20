package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/permitgate/internal/interfaces/cli/migrate"
	"github.com/orris-inc/permitgate/internal/interfaces/cli/server"
	"github.com/orris-inc/permitgate/internal/interfaces/cli/token"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "permitgate",
		Short: "Permitgate - data center visitor access permits",
		Long:  `Permitgate issues visitor access permits, runs their two-tier approval and controls check-in, door access and check-out.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
