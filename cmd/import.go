package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/exam-board/internal/importer"
	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/schedule"
	"github.com/Tiliavir/exam-board/internal/sheet"
)

var (
	bulkFile      string
	bulkGrammar   string
	bulkSession   int
	sheetURL      string
	importSession string
	importAll     bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import exams from pasted text, a published sheet or a workbook",
}

var importBulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Parse pasted timetable lines and append them to a session",
	Long: `Parse timetable lines and append them to a session (the active one by default).

Strict lines look like:   Biology HL P2 2:30 08:15 10:45
Loose lines look like:    Physics SL 09:00 90

Exams with the same start and duration are merged into one card.
Text is read from --file, or from stdin when no file is given.`,
	Args: cobra.NoArgs,
	RunE: runImportBulk,
}

var importSheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Fetch the session sheet and import one or all sessions",
	Long: `Fetch the tab-separated session sheet (columns: Session, Subject, Duration,
Start) and list the sessions it contains. With --session or --all the staged
sessions are imported: a session whose name already exists has its exams
replaced, any other is added.`,
	Args: cobra.NoArgs,
	RunE: runImportSheet,
}

var importWorkbookCmd = &cobra.Command{
	Use:   "workbook <file.xlsx>",
	Short: "Import sessions from the first sheet of an .xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportWorkbook,
}

func init() {
	importBulkCmd.Flags().StringVarP(&bulkFile, "file", "f", "", "Read text from this file instead of stdin")
	importBulkCmd.Flags().StringVar(&bulkGrammar, "grammar", "", "auto, strict or loose (default from config)")
	importBulkCmd.Flags().IntVar(&bulkSession, "session", 0, "Target session id (default: active session)")

	importSheetCmd.Flags().StringVar(&sheetURL, "url", "", "Sheet URL (default from config)")
	for _, c := range []*cobra.Command{importSheetCmd, importWorkbookCmd} {
		c.Flags().StringVar(&importSession, "session", "", "Import only the session with this name")
		c.Flags().BoolVar(&importAll, "all", false, "Import every session")
		c.MarkFlagsMutuallyExclusive("session", "all")
	}

	importCmd.AddCommand(importBulkCmd, importSheetCmd, importWorkbookCmd)
}

func runImportBulk(cmd *cobra.Command, args []string) error {
	var (
		raw []byte
		err error
	)
	if bulkFile == "" || bulkFile == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(bulkFile)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	ctx := context.Background()
	a := openApp(ctx)
	defer a.close()

	name := bulkGrammar
	if name == "" {
		name = a.cfg.Board.BulkGrammar
	}
	grammar, err := importer.ParseGrammar(name)
	if err != nil {
		return err
	}

	res := importer.ParseBulk(string(raw), grammar)
	out := cmd.OutOrStdout()
	if !res.OK {
		fmt.Fprintln(out, res.Status)
		return nil
	}

	var sessionID int
	if _, err := a.update(ctx, func(d model.Document) (model.Document, error) {
		id, err := schedule.ResolveSession(d, bulkSession)
		if err != nil {
			return d, err
		}
		sessionID = id
		return schedule.AppendExams(d, id, res.Exams)
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (session %d, %s format)\n", res.Status, sessionID, res.Grammar)
	return nil
}

func runImportSheet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := openApp(ctx)
	defer a.close()

	url := sheetURL
	if url == "" {
		url = a.cfg.Sheet.URL
	}
	if url == "" {
		return fmt.Errorf("no sheet URL: pass --url or set sheet.url in the config")
	}

	client := sheet.NewClient(ctx, a.cfg.Sheet.Token, a.cfg.Sheet.Timeout)
	res := sheet.NewStager(client, a.logger).Refresh(ctx, url)
	return importStaged(cmd, a, res.Status, res.Groups)
}

func runImportWorkbook(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	groups, err := importer.ParseWorkbook(f)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a := openApp(ctx)
	defer a.close()
	return importStaged(cmd, a, fmt.Sprintf("Loaded %d sessions from %s.", len(groups), args[0]), groups)
}

// importStaged prints what was staged and imports the selected groups.
func importStaged(cmd *cobra.Command, a *app, status string, groups []importer.Group) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, status)
	for _, g := range groups {
		fmt.Fprintf(out, "  %-20s %d exams\n", g.Name, len(g.Exams))
	}

	selected := groups
	switch {
	case importAll:
	case importSession != "":
		g, ok := importer.FindGroup(groups, importSession)
		if !ok {
			return fmt.Errorf("session %q is not in the sheet", importSession)
		}
		selected = []importer.Group{g}
	default:
		return nil
	}
	if len(selected) == 0 {
		return nil
	}

	ctx := context.Background()
	var res schedule.ImportResult
	if _, err := a.update(ctx, func(d model.Document) (model.Document, error) {
		var out model.Document
		out, res = schedule.ImportGroups(d, selected)
		return out, nil
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d new sessions, replaced %d.\n", res.Imported, res.Replaced)
	return nil
}
