package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/taflgame/internal/model"
	"github.com/mcoot/taflgame/internal/services/credential"
	"github.com/mcoot/taflgame/internal/services/session"
	redisstorage "github.com/mcoot/taflgame/internal/storage/redis"
	"github.com/mcoot/taflgame/internal/storage/sqlite"
	"github.com/mcoot/taflgame/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.app.MockRandom.QueueToken("token-1", "token-2")
	s.ctx = context.Background()
}

func c(row, col int) model.Coordinate {
	return model.Coordinate{Row: row, Column: col}
}

func (s *IntegrationSuite) TestFullGameFlow() {
	created, err := s.app.Coordinator.NewGame(s.ctx, TestSecret)
	s.Require().NoError(err)
	s.Equal("token-1", created.Session.Token)
	s.Equal(11, created.Game.BoardSize)

	sess, err := s.app.Sessions.Authenticate("token-1")
	s.Require().NoError(err)
	s.Equal(created.Game.ID, sess.GameID)

	state := created.Snapshot.Clone()
	state.SideToMove = model.SideDefender
	result, err := s.app.Coordinator.MakeMove(s.ctx, created.Session.Token, &state, model.Move{From: c(5, 7), To: c(2, 7)})
	s.Require().NoError(err)
	s.Equal(model.SideAttacker, result.Snapshot.SideToMove)

	// Creation, the reconciled defender turn, then the move
	history, err := s.app.Storage.GetHistory(s.ctx, created.Game.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Nil(history[0].Move)
	s.Nil(history[1].Move)
	s.Require().NotNil(history[2].Move)
	s.Equal(c(2, 7), history[2].Move.To)

	saved, err := s.app.Storage.GetGame(s.ctx, created.Game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusInProgress, saved.Status)
	s.Equal("fetlar", saved.Variant)
}

func (s *IntegrationSuite) TestSessionExpiresWithClock() {
	_, err := s.app.Coordinator.NewGame(s.ctx, TestSecret)
	s.Require().NoError(err)

	s.app.MockClock.Advance(session.DefaultConfig().TTL + time.Second)

	_, err = s.app.Sessions.Authenticate("token-1")
	s.ErrorIs(err, session.ErrInvalidSession)
}

func (s *IntegrationSuite) TestReplacingGameRevokesOldToken() {
	first, err := s.app.Coordinator.NewGame(s.ctx, TestSecret)
	s.Require().NoError(err)
	_, err = s.app.Coordinator.NewGame(s.ctx, TestSecret)
	s.Require().NoError(err)

	_, err = s.app.Sessions.Authenticate("token-1")
	s.ErrorIs(err, session.ErrInvalidSession)
	_, err = s.app.Sessions.Authenticate("token-2")
	s.NoError(err)

	_, err = s.app.Storage.GetGame(s.ctx, first.Game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Production wiring

type FactorySuite struct {
	suite.Suite
	hash string
}

func TestFactorySuite(t *testing.T) {
	suite.Run(t, new(FactorySuite))
}

func (s *FactorySuite) SetupSuite() {
	hash, err := credential.HashSecret(TestSecret, credential.SchemePBKDF2, 1000)
	s.Require().NoError(err)
	s.hash = hash
}

func (s *FactorySuite) config() Config {
	return Config{
		SecretHash:  s.hash,
		HintDepth:   1,
		HintTimeout: time.Second,
		SessionTTL:  time.Hour,
		Logger:      testutil.NopLogger(),
	}
}

func (s *FactorySuite) playOpening(app *App) {
	created, err := app.Coordinator.NewGame(context.Background(), TestSecret)
	s.Require().NoError(err)
	history, err := app.Storage.GetHistory(context.Background(), created.Game.ID)
	s.Require().NoError(err)
	s.Len(history, 1)
}

func (s *FactorySuite) TestMemoryByDefault() {
	app, err := New(s.config())
	s.Require().NoError(err)
	defer app.Close()

	s.Equal(11, app.Engine.Size())
	s.Nil(app.CreateLimiter)
	s.playOpening(app)
}

func (s *FactorySuite) TestVariantAndLimiter() {
	cfg := s.config()
	cfg.Variant = "brandubh"
	cfg.CreateRate = 2
	cfg.CreateBurst = 3

	app, err := New(cfg)
	s.Require().NoError(err)
	defer app.Close()

	s.Equal(7, app.Engine.Size())
	s.Require().NotNil(app.CreateLimiter)
	s.Equal(3, app.CreateLimiter.Burst())
}

func (s *FactorySuite) TestSQLiteStorage() {
	cfg := s.config()
	cfg.StorageType = StorageTypeSQLite
	cfg.SQLitePath = filepath.Join(s.T().TempDir(), "tafl.db")

	app, err := New(cfg)
	s.Require().NoError(err)
	defer app.Close()

	s.IsType(&sqlite.Storage{}, app.Storage)
	s.playOpening(app)
}

func (s *FactorySuite) TestRedisStorage() {
	mini := miniredis.RunT(s.T())

	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mini.Addr()
	cfg := s.config()
	cfg.StorageType = StorageTypeRedis
	cfg.RedisConfig = &redisCfg

	app, err := New(cfg)
	s.Require().NoError(err)
	defer app.Close()

	s.IsType(&redisstorage.Storage{}, app.Storage)
	s.playOpening(app)
}

func (s *FactorySuite) TestRejectsBadConfig() {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing hash", func(c *Config) { c.SecretHash = "" }},
		{"unknown hash scheme", func(c *Config) { c.SecretHash = "$1$abc$def" }},
		{"unknown variant", func(c *Config) { c.Variant = "chess" }},
		{"unknown storage", func(c *Config) { c.StorageType = "postgres" }},
		{"redis without config", func(c *Config) { c.StorageType = StorageTypeRedis }},
		{"sqlite without path", func(c *Config) { c.StorageType = StorageTypeSQLite }},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			cfg := s.config()
			tt.mutate(&cfg)
			_, err := New(cfg)
			s.Error(err)
		})
	}
}
