package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/exam-board/internal/importer"
	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/schedule"
	"github.com/Tiliavir/exam-board/internal/timecalc"
)

var (
	examSession  int
	examSubject  string
	examStart    string
	examDuration string
	examReading  int
	examHidden   bool
	examPercent  int
)

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Manage the exams of a session",
	Long: `Manage the exams of a session. Commands act on the active session unless
--session is given. Exam ids may be abbreviated to any unique prefix.`,
}

var examListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exams with their derived times",
	Args:  cobra.NoArgs,
	RunE:  runExamList,
}

var examAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an exam (defaults: New Subject, 09:00, 60 minutes)",
	Args:  cobra.NoArgs,
	RunE:  runExamAdd,
}

var examSetCmd = &cobra.Command{
	Use:   "set <exam-id>",
	Short: "Change fields of an exam",
	Args:  cobra.ExactArgs(1),
	RunE:  runExamSet,
}

var examRemoveCmd = &cobra.Command{
	Use:   "remove <exam-id>",
	Short: "Remove an exam",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editExam(cmd, args[0], "Removed", schedule.RemoveExam)
	},
}

var examHideCmd = &cobra.Command{
	Use:   "hide <exam-id>",
	Short: "Toggle whether an exam is shown on the board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editExam(cmd, args[0], "Toggled visibility of", schedule.ToggleHidden)
	},
}

var examDuplicateCmd = &cobra.Command{
	Use:   "duplicate <exam-id>",
	Short: "Add an extra-time copy of an exam (ET-n)",
	Args:  cobra.ExactArgs(1),
	RunE:  runExamDuplicate,
}

func init() {
	examCmd.PersistentFlags().IntVar(&examSession, "session", 0, "Session id (default: active session)")

	for _, c := range []*cobra.Command{examAddCmd, examSetCmd} {
		c.Flags().StringVar(&examSubject, "subject", "", "Subject shown on the card")
		c.Flags().StringVar(&examStart, "start", "", "Start time HH:MM")
		c.Flags().StringVar(&examDuration, "duration", "", "Writing time, minutes or H:MM")
		c.Flags().IntVar(&examReading, "reading", 0, "Reading time in minutes (0 disables reading time)")
	}
	examSetCmd.Flags().BoolVar(&examHidden, "hidden", false, "Hide the exam from the board")
	examDuplicateCmd.Flags().IntVar(&examPercent, "percent", 0, "Extra time in percent (default from config)")

	examCmd.AddCommand(examListCmd, examAddCmd, examSetCmd, examRemoveCmd, examHideCmd, examDuplicateCmd)
}

// patchFromFlags collects the flags the user actually passed.
func patchFromFlags(cmd *cobra.Command) schedule.ExamPatch {
	var p schedule.ExamPatch
	flags := cmd.Flags()
	if flags.Changed("subject") {
		p.Subject = &examSubject
	}
	if flags.Changed("start") {
		start := strings.TrimSpace(examStart)
		p.StartTime = &start
	}
	if flags.Changed("duration") {
		d := model.Minutes(importer.ParseDurationToken(examDuration))
		p.Duration = &d
	}
	if flags.Changed("reading") {
		r := model.Minutes(examReading)
		has := examReading > 0
		p.ReadingTime = &r
		p.HasReadingTime = &has
	}
	if flags.Lookup("hidden") != nil && flags.Changed("hidden") {
		p.IsHidden = &examHidden
	}
	return p
}

// resolveExam finds the exam whose id equals or uniquely starts with ref.
func resolveExam(doc model.Document, sessionID int, ref string) (model.ID, error) {
	var matches []model.ID
	for _, s := range doc.Schedule {
		if s.ID != sessionID {
			continue
		}
		for _, e := range s.Exams {
			if string(e.ID) == ref {
				return e.ID, nil
			}
			if strings.HasPrefix(string(e.ID), ref) {
				matches = append(matches, e.ID)
			}
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("exam %s: %w", ref, schedule.ErrExamNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("exam id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func runExamList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := openApp(ctx)
	defer a.close()

	doc := a.load(ctx)
	id, err := schedule.ResolveSession(doc, examSession)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	now := a.now()
	for _, s := range doc.Schedule {
		if s.ID != id {
			continue
		}
		fmt.Fprintf(out, "%s\n", s.Name)
		if len(s.Exams) == 0 {
			fmt.Fprintln(out, "No exams.")
		}
		for _, e := range s.Exams {
			t := timecalc.DeriveTimings(e, now)
			flags := ""
			if e.IsHidden {
				flags = "  [hidden]"
			}
			fmt.Fprintf(out, "%s  %s–%s  %-8s reading %2dm  %s%s\n",
				e.ID,
				timecalc.FormatShortTime(t.Start),
				timecalc.FormatShortTime(t.WriteEnd),
				timecalc.FormatDuration(t.WritingMinutes),
				timecalc.ReadingMinutes(e),
				e.Subject,
				flags,
			)
		}
	}
	return nil
}

func runExamAdd(cmd *cobra.Command, args []string) error {
	exam := schedule.NewExam()
	var sessionID int
	_, err := withDocument(func(d model.Document) (model.Document, error) {
		id, err := schedule.ResolveSession(d, examSession)
		if err != nil {
			return d, err
		}
		sessionID = id
		out, err := schedule.AddExam(d, id, exam)
		if err != nil {
			return d, err
		}
		return schedule.UpdateExam(out, id, exam.ID, patchFromFlags(cmd))
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added exam %s to session %d\n", exam.ID, sessionID)
	return nil
}

func runExamSet(cmd *cobra.Command, args []string) error {
	return editExam(cmd, args[0], "Updated", func(d model.Document, sessionID int, examID model.ID) (model.Document, error) {
		return schedule.UpdateExam(d, sessionID, examID, patchFromFlags(cmd))
	})
}

// editExam resolves the session and exam id, then applies op.
func editExam(cmd *cobra.Command, ref, verb string, op func(model.Document, int, model.ID) (model.Document, error)) error {
	var examID model.ID
	_, err := withDocument(func(d model.Document) (model.Document, error) {
		sessionID, err := schedule.ResolveSession(d, examSession)
		if err != nil {
			return d, err
		}
		if examID, err = resolveExam(d, sessionID, ref); err != nil {
			return d, err
		}
		return op(d, sessionID, examID)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s exam %s\n", verb, examID)
	return nil
}

func runExamDuplicate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := openApp(ctx)
	defer a.close()

	percent := a.cfg.Board.ExtraTimePercent
	if cmd.Flags().Changed("percent") {
		percent = examPercent
	}
	if percent < 0 {
		return fmt.Errorf("extra time must not be negative, got %d%%", percent)
	}

	var dup model.ExamRecord
	_, err := a.update(ctx, func(d model.Document) (model.Document, error) {
		sessionID, err := schedule.ResolveSession(d, examSession)
		if err != nil {
			return d, err
		}
		examID, err := resolveExam(d, sessionID, args[0])
		if err != nil {
			return d, err
		}
		out, e, err := schedule.DuplicateExam(d, sessionID, examID, percent)
		dup = e
		return out, err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, +%d%%) as exam %s\n",
		dup.Subject, timecalc.FormatDuration(int(dup.Duration)), percent, dup.ID)
	return nil
}

// withDocument runs one load-modify-save cycle and returns the saved document.
func withDocument(fn func(model.Document) (model.Document, error)) (model.Document, error) {
	ctx := context.Background()
	a := openApp(ctx)
	defer a.close()
	return a.update(ctx, fn)
}
