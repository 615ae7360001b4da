package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "farmgate",
	Short: "FarmGate - farm inventory marketplace backend",
	Long: `FarmGate is a backend for a farm-inventory marketplace.

It provides a REST API for user accounts, harvest inventory management
and market listings.

Run 'farmgate serve' to start the server, or 'farmgate import' to seed
farms and farmers.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}
