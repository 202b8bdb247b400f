package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quasar",
		Short: "Quasar database administration backend",
		Long:  "Run the Quasar backend that manages connection profiles and transport security for database connections",
	}

	rootCmd.AddCommand(
		serveCmd(),
		sslModesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
