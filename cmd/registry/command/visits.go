package command

import (
	"github.com/spf13/cobra"
)

var visitsCmd = &cobra.Command{
	Use:   "visits",
	Short: "Manage follow-up visits",
	Long:  "The visits command is used to inspect the follow-up visit schedule",
}

func init() {
	rootCmd.AddCommand(visitsCmd)
}
