package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/oriys/quasar/internal/engine"
	"github.com/oriys/quasar/internal/ssl"
	"github.com/spf13/cobra"
)

func sslModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ssl-modes [database]",
		Short: "List supported SSL modes",
		Long:  "List the SSL modes each database type accepts, with the native aliases they map from",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types := engine.AllDatabaseTypes
			if len(args) == 1 {
				types = []engine.DatabaseType{engine.DatabaseType(args[0])}
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATABASE\tMODE\tALIASES\tDESCRIPTION")
			for _, dbType := range types {
				modes := ssl.GetSSLModes(dbType)
				if len(modes) == 0 {
					fmt.Fprintf(w, "%s\t-\t-\tno SSL support\n", dbType)
					continue
				}
				for _, info := range modes {
					aliases := ssl.GetSSLModeAliases(dbType, info.Value)
					aliasCol := "-"
					if len(aliases) > 0 {
						aliasCol = strings.Join(aliases, ",")
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", dbType, info.Value, aliasCol, info.Description)
				}
			}
			w.Flush()
			return nil
		},
	}
}
