package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wgslfront/internal/diag"
)

var explainCmd = &cobra.Command{
	Use:   "explain CODE",
	Short: "Describe a diagnostic code",
	Long:  `Explain prints the title of a diagnostic code given as SYN2001 or 2001`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, ok := diag.ParseCode(strings.TrimSpace(args[0]))
		if !ok {
			return fmt.Errorf("unknown diagnostic code %q", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", code.ID(), code.Title())
		return nil
	},
}
