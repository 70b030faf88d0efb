package game

import (
	"github.com/mcoot/taflgame/internal/codec"
	"github.com/mcoot/taflgame/internal/engine"
	"github.com/mcoot/taflgame/internal/model"
)

// Reconcile overwrites the engine position with a client snapshot. The
// snapshot is taken verbatim; no attempt is made to check it is reachable
// from earlier positions. Applying the same snapshot twice is a no-op.
func Reconcile(e engine.Engine, snapshot model.Snapshot) error {
	if err := e.SetPosition(snapshot); err != nil {
		return &codec.ParseError{Field: "state", Reason: err.Error()}
	}
	return nil
}
