package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/taflgame/internal/dependencies/mocks"
	"github.com/mcoot/taflgame/internal/engine/tafl"
	"github.com/mcoot/taflgame/internal/services/credential"
	"github.com/mcoot/taflgame/internal/services/game"
	"github.com/mcoot/taflgame/internal/services/session"
	"github.com/mcoot/taflgame/internal/storage/memory"
)

// TestSecret is the secret accepted by apps built with NewTestApp
const TestSecret = "test-secret"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// It plays fetlar against in-memory storage.
func NewTestApp() *TestApp {
	hash, err := credential.HashSecret(TestSecret, credential.SchemePBKDF2, 1000)
	if err != nil {
		panic(err)
	}
	verifier, err := credential.NewVerifier(hash)
	if err != nil {
		panic(err)
	}
	variant, err := tafl.LookupVariant("fetlar")
	if err != nil {
		panic(err)
	}

	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(
		store,
		tafl.New(variant),
		mockClock,
		mockRandom,
		verifier,
		session.DefaultConfig(),
		game.DefaultConfig(),
		logger,
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
