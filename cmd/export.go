package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/timecalc"
)

var (
	exportFormat  string
	exportOutput  string
	exportSession int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the schedule",
	Long: `Export the schedule to stdout (csv, json, md) or to a workbook (xlsx).
The xlsx layout starts with Session, Subject, Duration, Start so it can be
imported again with: examboard import workbook <file>`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, xlsx")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "examboard.xlsx", "Output file for xlsx")
	exportCmd.Flags().IntVar(&exportSession, "session", 0, "Export only this session id")
}

// exportRow is one exam with its derived times.
type exportRow struct {
	Session  string
	Subject  string
	Start    string
	End      string
	Duration int
	Reading  int
	Hidden   bool
}

func exportRows(doc model.Document, sessionID int, ref time.Time) []exportRow {
	var rows []exportRow
	for _, s := range doc.Schedule {
		if sessionID != 0 && s.ID != sessionID {
			continue
		}
		for _, e := range s.Exams {
			t := timecalc.DeriveTimings(e, ref)
			rows = append(rows, exportRow{
				Session:  s.Name,
				Subject:  e.Subject,
				Start:    timecalc.FormatShortTime(t.Start),
				End:      timecalc.FormatShortTime(t.WriteEnd),
				Duration: t.WritingMinutes,
				Reading:  timecalc.ReadingMinutes(e),
				Hidden:   e.IsHidden,
			})
		}
	}
	return rows
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := openApp(ctx)
	defer a.close()

	doc := a.load(ctx)
	rows := exportRows(doc, exportSession, a.now())
	out := cmd.OutOrStdout()

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			fatal(fmt.Errorf("error encoding JSON: %w", err))
		}
		fmt.Fprintln(out, string(data))
	case "md":
		printMarkdown(out, rows)
	case "xlsx":
		if err := writeWorkbook(exportOutput, rows); err != nil {
			fatal(err)
		}
		fmt.Fprintf(out, "Wrote %d exams to %s\n", len(rows), exportOutput)
	case "csv":
		printCSV(out, rows)
	default:
		return fmt.Errorf("unknown export format %q", exportFormat)
	}
	return nil
}

func printCSV(out io.Writer, rows []exportRow) {
	fmt.Fprintln(out, "session,subject,start,end,duration_minutes,reading_minutes,hidden")
	for _, r := range rows {
		fmt.Fprintf(out, "%s,%s,%s,%s,%d,%d,%t\n",
			csvEscape(r.Session),
			csvEscape(r.Subject),
			r.Start,
			r.End,
			r.Duration,
			r.Reading,
			r.Hidden,
		)
	}
}

func printMarkdown(out io.Writer, rows []exportRow) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No exams found.")
		return
	}
	var current string
	for i, r := range rows {
		if i == 0 || r.Session != current {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "## %s\n\n", r.Session)
			fmt.Fprintln(out, "| Subject | Start | End | Duration | Reading |")
			fmt.Fprintln(out, "|---|---|---|---|---|")
			current = r.Session
		}
		subject := strings.ReplaceAll(r.Subject, "|", `\|`)
		if r.Hidden {
			subject = "~~" + subject + "~~"
		}
		fmt.Fprintf(out, "| %s | %s | %s | %s | %dm |\n",
			subject, r.Start, r.End, timecalc.FormatDuration(r.Duration), r.Reading)
	}
}

func writeWorkbook(path string, rows []exportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	header := []interface{}{"Session", "Subject", "Duration", "Start", "End", "Reading", "Hidden"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Session,
			r.Subject,
			fmt.Sprintf("%d:%02d", r.Duration/60, r.Duration%60),
			r.Start,
			r.End,
			r.Reading,
			r.Hidden,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
