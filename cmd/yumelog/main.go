package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yumelog/yumelog/internal/server"
)

var rootCmd = &cobra.Command{
	Use:          "yumelog",
	Short:        "Personal dream journal service",
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the journal HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Run()
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Migrate()
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
