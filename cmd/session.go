package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/schedule"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage exam sessions (days)",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.close()

		doc := a.load(ctx)
		active, _ := doc.ActiveSession()
		for _, s := range doc.Schedule {
			marker := " "
			if s.ID == active.ID {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %3d  %-20s %d exams\n", marker, s.ID, s.Name, len(s.Exams))
		}
		return nil
	},
}

var sessionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an empty session and make it active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var added model.Session
		_, err := withDocument(func(d model.Document) (model.Document, error) {
			var out model.Document
			out, added = schedule.AddSession(d)
			return out, nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added session %d %q\n", added.ID, added.Name)
		return nil
	},
}

var sessionRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSessionID(args[0])
		if err != nil {
			return err
		}
		if _, err := withDocument(func(d model.Document) (model.Document, error) {
			return schedule.RenameSession(d, id, args[1])
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed session %d to %q\n", id, args[1])
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session and its exams",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSessionID(args[0])
		if err != nil {
			return err
		}
		if _, err := withDocument(func(d model.Document) (model.Document, error) {
			return schedule.DeleteSession(d, id)
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %d\n", id)
		return nil
	},
}

var sessionSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Make a session the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSessionID(args[0])
		if err != nil {
			return err
		}
		if _, err := withDocument(func(d model.Document) (model.Document, error) {
			return schedule.SelectSession(d, id)
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %d is now active\n", id)
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionListCmd, sessionAddCmd, sessionRenameCmd, sessionDeleteCmd, sessionSelectCmd)
}

func parseSessionID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id %q", s)
	}
	return id, nil
}
