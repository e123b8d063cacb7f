package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lrctl",
	Short: "Exercise the lrmichael lock-free allocator",
	Long: `lrctl drives the lrmichael allocator from the command line: a
concurrency benchmark that hammers Malloc/Free across goroutines, and a
dump of the computed size-class table.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
