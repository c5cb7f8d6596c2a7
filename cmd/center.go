package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/schedule"
)

var centerCmd = &cobra.Command{
	Use:   "center",
	Short: "Set the board title and logo",
}

var centerNameCmd = &cobra.Command{
	Use:   "name <title>",
	Short: "Set the title shown at the top of the board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := withDocument(func(d model.Document) (model.Document, error) {
			return schedule.SetCenterName(d, args[0]), nil
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Board title set to %q\n", args[0])
		return nil
	},
}

var centerLogoCmd = &cobra.Command{
	Use:   "logo <url>",
	Short: "Set the logo URL (empty string removes it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := withDocument(func(d model.Document) (model.Document, error) {
			return schedule.SetLogoURL(d, args[0]), nil
		}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logo updated")
		return nil
	},
}

func init() {
	centerCmd.AddCommand(centerNameCmd, centerLogoCmd)
}
