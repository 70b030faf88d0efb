package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/taflgame/internal/dependencies/mocks"
	"github.com/mcoot/taflgame/internal/model"
)

type stubVerifier struct {
	secret string
}

func (v stubVerifier) Verify(secret string) bool {
	return secret != "" && secret == v.secret
}

type ManagerSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	manager *Manager
	ctx     context.Context
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.random.QueueToken("token-one", "token-two", "token-three")
	s.manager = New(stubVerifier{secret: "hunter2"}, s.clock, s.random, DefaultConfig())
	s.ctx = context.Background()
}

// Create tests

func (s *ManagerSuite) TestCreateSucceeds() {
	session, err := s.manager.Create(s.ctx, "hunter2", "g1")
	s.Require().NoError(err)

	s.Equal("token-one", session.Token)
	s.Equal(model.GameID("g1"), session.GameID)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
	s.True(s.manager.Active())
}

func (s *ManagerSuite) TestCreateRejectsWrongSecret() {
	_, err := s.manager.Create(s.ctx, "hunter3", "g1")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.False(s.manager.Active())
}

func (s *ManagerSuite) TestCreateRejectsEmptySecret() {
	_, err := s.manager.Create(s.ctx, "", "g1")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ManagerSuite) TestFailedCreateKeepsExistingSession() {
	first, err := s.manager.Create(s.ctx, "hunter2", "g1")
	s.Require().NoError(err)

	_, err = s.manager.Create(s.ctx, "wrong", "g2")
	s.Require().ErrorIs(err, ErrInvalidCredentials)

	_, err = s.manager.Authenticate(first.Token)
	s.NoError(err)
}

func (s *ManagerSuite) TestCreateRevokesPreviousToken() {
	first, err := s.manager.Create(s.ctx, "hunter2", "g1")
	s.Require().NoError(err)
	second, err := s.manager.Create(s.ctx, "hunter2", "g2")
	s.Require().NoError(err)

	_, err = s.manager.Authenticate(first.Token)
	s.ErrorIs(err, ErrInvalidSession)

	current, err := s.manager.Authenticate(second.Token)
	s.Require().NoError(err)
	s.Equal(model.GameID("g2"), current.GameID)
}

func (s *ManagerSuite) TestCreatePropagatesRandomFailure() {
	s.random.Reset()
	s.random.Err = errors.New("entropy exhausted")

	_, err := s.manager.Create(s.ctx, "hunter2", "g1")
	s.Error(err)
	s.False(s.manager.Active())
}

// Authenticate tests

func (s *ManagerSuite) TestAuthenticateWithoutSession() {
	_, err := s.manager.Authenticate("token-one")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ManagerSuite) TestAuthenticateRejectsEmptyToken() {
	_, err := s.manager.Create(s.ctx, "hunter2", "g1")
	s.Require().NoError(err)

	_, err = s.manager.Authenticate("")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ManagerSuite) TestAuthenticateRejectsWrongToken() {
	_, err := s.manager.Create(s.ctx, "hunter2", "g1")
	s.Require().NoError(err)

	_, err = s.manager.Authenticate("token-on")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ManagerSuite) TestAuthenticateExpiresAfterTTL() {
	session, err := s.manager.Create(s.ctx, "hunter2", "g1")
	s.Require().NoError(err)

	s.clock.Advance(24*time.Hour - time.Second)
	_, err = s.manager.Authenticate(session.Token)
	s.Require().NoError(err)

	s.clock.Advance(time.Second)
	_, err = s.manager.Authenticate(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
	s.False(s.manager.Active())
}

func (s *ManagerSuite) TestZeroTTLNeverExpires() {
	manager := New(stubVerifier{secret: "hunter2"}, s.clock, s.random, Config{})
	session, err := manager.Create(s.ctx, "hunter2", "g1")
	s.Require().NoError(err)
	s.True(session.ExpiresAt.IsZero())

	s.clock.Advance(365 * 24 * time.Hour)
	_, err = manager.Authenticate(session.Token)
	s.NoError(err)
}

// Revoke tests

func (s *ManagerSuite) TestRevokeEndsSession() {
	session, err := s.manager.Create(s.ctx, "hunter2", "g1")
	s.Require().NoError(err)

	s.Require().NoError(s.manager.Revoke(session.Token))

	_, err = s.manager.Authenticate(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
	s.False(s.manager.Active())
}

func (s *ManagerSuite) TestRevokeWithSupersededTokenKeepsSession() {
	first, err := s.manager.Create(s.ctx, "hunter2", "g1")
	s.Require().NoError(err)
	second, err := s.manager.Create(s.ctx, "hunter2", "g2")
	s.Require().NoError(err)

	s.ErrorIs(s.manager.Revoke(first.Token), ErrInvalidSession)
	s.ErrorIs(s.manager.Revoke(""), ErrInvalidSession)

	current, err := s.manager.Authenticate(second.Token)
	s.Require().NoError(err)
	s.Equal(model.GameID("g2"), current.GameID)
}

func (s *ManagerSuite) TestRevokeWithoutSession() {
	s.ErrorIs(s.manager.Revoke("anything"), ErrInvalidSession)
}
