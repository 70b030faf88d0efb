package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/taflgame/internal/api/response"
	"github.com/mcoot/taflgame/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.NewGameResponse:
		fmt.Fprintf(o.w, "Game: %s\n", v.GameID)
		fmt.Fprintf(o.w, "Token: %s\n", v.Token)
		if v.ExpiresAt != nil {
			fmt.Fprintf(o.w, "Expires: %s\n", v.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
		}
		o.printState(v.State)
	case response.State:
		o.printState(v)
	case response.GameStateResponse:
		o.printState(v.State)
		o.printProgress(v.Status, v.Winner)
	case response.MoveResponse:
		o.printState(v.State)
		if len(v.Captured) > 0 {
			fmt.Fprintf(o.w, "Captured: %s\n", formatLocations(v.Captured))
		}
		if v.Winner != "" {
			fmt.Fprintf(o.w, "Winner: %s\n", v.Winner)
		}
	case response.ReachableResponse:
		if len(v.Positions) == 0 {
			fmt.Fprintln(o.w, "No reachable squares")
			return
		}
		fmt.Fprintf(o.w, "Reachable (%d): %s\n", len(v.Positions), formatLocations(v.Positions))
	case response.HintResponse:
		fmt.Fprintf(o.w, "Hint: %s\n", formatMove(v.Hint))
	case response.ScoreResponse:
		fmt.Fprintf(o.w, "Score: %d\n", v.Score)
	case response.HistoryResponse:
		o.printHistory(v)
	case response.HealthResponse:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printState(s response.State) {
	fmt.Fprintf(o.w, "To move: %s\n", s.SideToMove)
	o.printBoard(s.Board)
}

func (o *Output) printBoard(board []string) {
	size := len(board)
	if size == 0 {
		return
	}

	// Print column headers
	fmt.Fprint(o.w, "    ")
	for col := 0; col < size; col++ {
		fmt.Fprintf(o.w, "%3d", col)
	}
	fmt.Fprintln(o.w)

	fmt.Fprintf(o.w, "   +%s+\n", strings.Repeat("---", size))
	for row, line := range board {
		fmt.Fprintf(o.w, "%2d |", row)
		for _, sq := range line {
			fmt.Fprintf(o.w, " %c ", sq)
		}
		fmt.Fprintln(o.w, "|")
	}
	fmt.Fprintf(o.w, "   +%s+\n", strings.Repeat("---", size))
}

func (o *Output) printProgress(status model.GameStatus, winner model.Side) {
	if status != "" {
		fmt.Fprintf(o.w, "Status: %s\n", status)
	}
	if winner != "" {
		fmt.Fprintf(o.w, "Winner: %s\n", winner)
	}
}

func (o *Output) printHistory(h response.HistoryResponse) {
	if h.GameID != "" {
		fmt.Fprintf(o.w, "Game: %s\n", h.GameID)
	}
	o.printProgress(h.Status, h.Winner)
	if len(h.History) == 0 {
		fmt.Fprintln(o.w, "No history")
		return
	}
	for _, e := range h.History {
		what := "position set"
		if e.Move != nil {
			what = formatMove(*e.Move)
		}
		fmt.Fprintf(o.w, "%3d  %s  %-14s then %s\n", e.Ply, e.RecordedAt.Format("15:04:05"), what, e.SideToMove)
	}
}

func formatLocation(l response.Location) string {
	return fmt.Sprintf("%d,%d", l.Row, l.Column)
}

func formatLocations(ls []response.Location) string {
	parts := make([]string, len(ls))
	for i, l := range ls {
		parts[i] = formatLocation(l)
	}
	return strings.Join(parts, " ")
}

func formatMove(m response.Move) string {
	return formatLocation(m.From) + "->" + formatLocation(m.To)
}
