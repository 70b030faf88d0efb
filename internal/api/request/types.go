package request

import "github.com/mcoot/taflgame/internal/model"

// Location is a board square as sent by the client. Pointers distinguish a
// missing field from zero.
type Location struct {
	Row    *int `json:"row"`
	Column *int `json:"column"`
}

// State is a client-held position. SideToMove also accepts the legacy
// integer form (1 attacker, 2 defender); WhoMoves is the legacy field name.
type State struct {
	Board      []string    `json:"board"`
	SideToMove *model.Side `json:"sideToMove,omitempty"`
	WhoMoves   *model.Side `json:"whoMoves,omitempty"`
}

// Side returns whichever side field the client populated
func (s *State) Side() (model.Side, bool) {
	switch {
	case s.SideToMove != nil:
		return *s.SideToMove, true
	case s.WhoMoves != nil:
		return *s.WhoMoves, true
	}
	return "", false
}

// UpdateStateRequest is the request body for replacing the server position
type UpdateStateRequest struct {
	State *State `json:"state"`
}

// ReachableRequest is the request body for listing destinations of a piece
type ReachableRequest struct {
	State    *State    `json:"state,omitempty"`
	Location *Location `json:"location"`
}

// MoveRequest is the request body for making a move
type MoveRequest struct {
	State *State    `json:"state,omitempty"`
	From  *Location `json:"from"`
	To    *Location `json:"to"`
}

// PositionRequest is the request body for hint and score, which only carry
// an optional state
type PositionRequest struct {
	State *State `json:"state,omitempty"`
}
