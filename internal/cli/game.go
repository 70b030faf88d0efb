package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/taflgame/internal/api/handler"
	"github.com/mcoot/taflgame/internal/api/request"
	"github.com/mcoot/taflgame/internal/api/response"
	"github.com/mcoot/taflgame/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameStateCmd())
	cmd.AddCommand(newGameSetStateCmd())
	cmd.AddCommand(newGameReachableCmd())
	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameHintCmd())
	cmd.AddCommand(newGameScoreCmd())
	cmd.AddCommand(newGameHistoryCmd())
	cmd.AddCommand(newGameEndCmd())

	return cmd
}

func newGameNewCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game and store its token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = cfg.Secret
			}
			if secret == "" {
				return errors.New("a secret is required (--secret or TAFLCTL_SECRET)")
			}

			// A stale token would be ignored by the server, but don't send it
			client.SetToken("")

			var result response.NewGameResponse
			headers := map[string]string{handler.SecretHeader: secret}
			if err := client.Do(http.MethodPost, "/api/v1/games", headers, nil, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Game secret (env: TAFLCTL_SECRET)")
	return cmd
}

func newGameStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the server position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameStateResponse
			if err := client.Get("/api/v1/game/state", &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameSetStateCmd() *cobra.Command {
	var side, stateFile string

	cmd := &cobra.Command{
		Use:   "set-state [row...]",
		Short: "Replace the server position",
		Long: `Replace the server position with the given rows, top row first, or with
the state read from --state. Squares are '.' empty, 'a' attacker,
'd' defender and 'k' king.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadState(cmd.InOrStdin(), stateFile)
			if err != nil {
				return err
			}
			if state == nil {
				if len(args) == 0 {
					return errors.New("rows or --state are required")
				}
				s := model.Side(side)
				state = &request.State{Board: args, SideToMove: &s}
			}

			var result response.State
			if err := client.Put("/api/v1/game/state", request.UpdateStateRequest{State: state}, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&side, "side", string(model.SideAttacker), "Side to move: attacker, defender")
	addStateFlag(cmd, &stateFile)
	return cmd
}

func newGameReachableCmd() *cobra.Command {
	var stateFile string

	cmd := &cobra.Command{
		Use:   "reachable <row> <col>",
		Short: "List the squares a piece can move to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := parseLocation(args[0], args[1])
			if err != nil {
				return err
			}
			state, err := loadState(cmd.InOrStdin(), stateFile)
			if err != nil {
				return err
			}

			req := request.ReachableRequest{State: state, Location: location}
			var result response.ReachableResponse
			if err := client.Post("/api/v1/game/reachable", req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	addStateFlag(cmd, &stateFile)
	return cmd
}

func newGameMoveCmd() *cobra.Command {
	var stateFile string

	cmd := &cobra.Command{
		Use:   "move <from-row> <from-col> <to-row> <to-col>",
		Short: "Move a piece for the side to move",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseLocation(args[0], args[1])
			if err != nil {
				return err
			}
			to, err := parseLocation(args[2], args[3])
			if err != nil {
				return err
			}
			state, err := loadState(cmd.InOrStdin(), stateFile)
			if err != nil {
				return err
			}

			req := request.MoveRequest{State: state, From: from, To: to}
			var result response.MoveResponse
			if err := client.Post("/api/v1/game/move", req, &result); err != nil {
				var reqErr *RequestError
				if errors.As(err, &reqErr) && reqErr.Body.State != nil && cfg.Output == "text" {
					fmt.Fprintln(cmd.ErrOrStderr(), "Position unchanged:")
					NewOutput(cmd.ErrOrStderr(), cfg.Output).Print(*reqErr.Body.State)
				}
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	addStateFlag(cmd, &stateFile)
	return cmd
}

func newGameHintCmd() *cobra.Command {
	var stateFile string

	cmd := &cobra.Command{
		Use:   "hint",
		Short: "Ask the engine for a move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadState(cmd.InOrStdin(), stateFile)
			if err != nil {
				return err
			}

			var result response.HintResponse
			if err := client.Post("/api/v1/game/hint", request.PositionRequest{State: state}, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	addStateFlag(cmd, &stateFile)
	return cmd
}

func newGameScoreCmd() *cobra.Command {
	var stateFile string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Evaluate the position (positive favours attackers)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadState(cmd.InOrStdin(), stateFile)
			if err != nil {
				return err
			}

			var result response.ScoreResponse
			if err := client.Post("/api/v1/game/score", request.PositionRequest{State: state}, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	addStateFlag(cmd, &stateFile)
	return cmd
}

func newGameHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the positions the server executed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.HistoryResponse
			if err := client.Get("/api/v1/game/history", &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the session and forget the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/session"); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).PrintMessage("Session ended")
			return nil
		},
	}
}

func addStateFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "state", "", "JSON file holding the client position to send first ('-' for stdin)")
}

// loadState reads a client position, or returns nil when no file was given
func loadState(stdin io.Reader, path string) (*request.State, error) {
	if path == "" {
		return nil, nil
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var state request.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	return &state, nil
}

func parseLocation(rowArg, colArg string) (*request.Location, error) {
	row, err := strconv.Atoi(rowArg)
	if err != nil {
		return nil, fmt.Errorf("invalid row: %w", err)
	}
	col, err := strconv.Atoi(colArg)
	if err != nil {
		return nil, fmt.Errorf("invalid col: %w", err)
	}
	return &request.Location{Row: &row, Column: &col}, nil
}
