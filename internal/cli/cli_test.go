package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/taflgame/internal/api/response"
	"github.com/mcoot/taflgame/internal/model"
	"github.com/mcoot/taflgame/internal/services/credential"
)

func TestHashSecretFromStdin(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("swordfish\n"))
	cmd.SetArgs([]string{"hash-secret", "--scheme", "bcrypt", "--cost", "4"})

	require.NoError(t, cmd.Execute())
	hash := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"))
	assert.True(t, credential.Verify("swordfish", hash))
}

func TestHashSecretSHA256Crypt(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"hash-secret", "--scheme", "sha256-crypt", "--cost", "1000", "swordfish"})

	require.NoError(t, cmd.Execute())
	hash := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(hash, "$5$rounds=1000$"))
	assert.True(t, credential.Verify("swordfish", hash))
}

func TestHashSecretRejectsUnknownScheme(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"hash-secret", "--scheme", "md5", "swordfish"})

	assert.ErrorIs(t, cmd.Execute(), credential.ErrUnsupportedHash)
}

func TestClientDecodesErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"ILLEGAL_MOVE","message":"nope"},"state":{"board":["..."],"sideToMove":"attacker"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	err := c.Post("/api/v1/game/move", map[string]int{}, nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.Status)
	assert.Equal(t, "ILLEGAL_MOVE", reqErr.Body.Error.Code)
	require.NotNil(t, reqErr.Body.State)
	assert.Equal(t, model.SideAttacker, reqErr.Body.State.SideToMove)
	assert.Equal(t, "nope (ILLEGAL_MOVE)", err.Error())
}

func TestClientFallsBackToRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "").Get("/api/v1/health", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestOutputPrintsBoard(t *testing.T) {
	var out bytes.Buffer
	NewOutput(&out, "text").Print(response.MoveResponse{
		State: response.State{
			Board:      []string{"a..", ".k.", "..d"},
			SideToMove: model.SideDefender,
		},
		Captured: []response.Location{{Row: 0, Column: 1}},
	})

	text := out.String()
	assert.Contains(t, text, "To move: defender")
	assert.Contains(t, text, " 1 | .  k  . |")
	assert.Contains(t, text, "Captured: 0,1")
}

func TestOutputPrintsProgress(t *testing.T) {
	var out bytes.Buffer
	NewOutput(&out, "text").Print(response.GameStateResponse{
		State: response.State{
			Board:      []string{"k..", "...", "..."},
			SideToMove: model.SideAttacker,
		},
		Status: model.GameStatusFinished,
		Winner: model.SideDefender,
	})

	text := out.String()
	assert.Contains(t, text, "Status: finished")
	assert.Contains(t, text, "Winner: defender")
}

func TestLoadState(t *testing.T) {
	state, err := loadState(strings.NewReader(`{"board":["...",".k.","..."],"whoMoves":1}`), "-")
	require.NoError(t, err)
	side, ok := state.Side()
	require.True(t, ok)
	assert.Equal(t, model.SideAttacker, side)

	state, err = loadState(nil, "")
	require.NoError(t, err)
	assert.Nil(t, state)

	_, err = loadState(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseLocation(t *testing.T) {
	loc, err := parseLocation("5", "7")
	require.NoError(t, err)
	assert.Equal(t, 5, *loc.Row)
	assert.Equal(t, 7, *loc.Column)

	_, err = parseLocation("x", "7")
	assert.Error(t, err)
}
