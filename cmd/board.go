package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/exam-board/internal/board"
	"github.com/Tiliavir/exam-board/internal/clock"
	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/schedule"
)

var (
	boardWatch   bool
	boardSession int
	boardJSON    bool
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the countdown board for the active session",
	Args:  cobra.NoArgs,
	RunE:  runBoard,
}

func init() {
	boardCmd.Flags().BoolVarP(&boardWatch, "watch", "w", false, "Redraw every tick until interrupted")
	boardCmd.Flags().IntVar(&boardSession, "session", 0, "Show this session instead of the active one")
	boardCmd.Flags().BoolVar(&boardJSON, "json", false, "Print the board as JSON")
}

func runBoard(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := openApp(ctx)
	defer a.close()

	// Validate the session once up front so a typo fails fast.
	if _, err := pickSession(a.load(ctx), boardSession); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !boardWatch {
		return drawBoard(out, a, a.load(ctx), a.now(), false)
	}

	sched := clock.New(a.cfg.Board.TickInterval)
	ticks, unsubscribe := sched.Subscribe()
	defer unsubscribe()
	go sched.Run(ctx)

	if err := drawBoard(out, a, a.load(ctx), a.now(), true); err != nil {
		return err
	}
	for t := range ticks {
		// Reload so edits made from another shell show up.
		if err := drawBoard(out, a, a.load(ctx), t.In(a.loc), true); err != nil {
			return err
		}
	}
	return nil
}

// pickSession returns doc with id selected, or doc unchanged when id is 0.
func pickSession(doc model.Document, id int) (model.Document, error) {
	if id == 0 {
		return doc, nil
	}
	return schedule.SelectSession(doc, id)
}

func drawBoard(out io.Writer, a *app, doc model.Document, now time.Time, clear bool) error {
	doc, err := pickSession(doc, boardSession)
	if err != nil {
		return err
	}
	b := board.Build(doc, now, a.cfg.Board.MaxCards)
	if boardJSON {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encoding board: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	if clear {
		fmt.Fprint(out, "\033[H\033[2J")
	}
	fmt.Fprint(out, board.Render(b))
	return nil
}
