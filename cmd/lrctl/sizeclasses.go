package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ricleite/lrmichael/internal/sizeclass"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sizeclasses",
		Short: "Print the computed size-class table",
		Run: func(cmd *cobra.Command, args []string) {
			table := sizeclass.New()
			fmt.Println(table.String())
			for i := 1; i <= table.NumClasses(); i++ {
				c := table.Class(i)
				fmt.Printf("%3d  block=%d  sb=%d  blocks=%d\n", i, c.BlockSize, c.SBSize, c.BlocksPerSB)
			}
		},
	}
	rootCmd.AddCommand(cmd)
}
