package rws

import (
	"context"
	"testing"
	"time"

	"github.com/iwtcode/abbAdapter/models"
	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var phaseRank = map[models.RMMPPhase]int{
	models.RMMPObserver:      0,
	models.RMMPPendingModify: 1,
	models.RMMPModify:        2,
}

func TestRMMPProgression(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)
	ctx := testContext(t)
	fc.set(func() { fc.grantAfter = 2 })

	assert.Equal(t, models.RMMPObserver, s.RMMPPhase())

	state, err := s.RMMPState(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RMMPObserver, state.Phase, "Без запроса опрос не меняет фазу")

	require.NoError(t, s.RequestRMMP(ctx))
	assert.Equal(t, models.RMMPPendingModify, s.RMMPPhase())

	phases := []models.RMMPPhase{s.RMMPPhase()}
	for i := 0; i < 3; i++ {
		state, err := s.RMMPState(ctx)
		require.NoError(t, err)
		phases = append(phases, state.Phase)
	}
	assert.Equal(t, []models.RMMPPhase{
		models.RMMPPendingModify,
		models.RMMPPendingModify,
		models.RMMPPendingModify,
		models.RMMPModify,
	}, phases)
	for i := 1; i < len(phases); i++ {
		assert.GreaterOrEqual(t, phaseRank[phases[i]], phaseRank[phases[i-1]], "Фаза не должна откатываться")
	}

	state, err = s.RMMPState(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RMMPModify, state.Phase)
	assert.Equal(t, "modify", state.Privilege)
	assert.Equal(t, "12", state.UserID)
	assert.Equal(t, DefaultApplication, state.Application)

	require.NoError(t, s.RequestRMMP(ctx))
	assert.Equal(t, 1, fc.hitCount(resourceRMMP), "Повторный запрос в Modify не отправляется")
}

func TestRMMPRequestIsIdempotentWhilePending(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)
	ctx := testContext(t)
	fc.set(func() { fc.grantAfter = 100 })

	require.NoError(t, s.RequestRMMP(ctx))
	require.NoError(t, s.RequestRMMP(ctx))
	assert.Equal(t, 1, fc.hitCount(resourceRMMP))
	assert.Equal(t, models.RMMPPendingModify, s.RMMPPhase())
}

func TestRMMPDenied(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)
	ctx := testContext(t)
	fc.set(func() { fc.denyRMMP = true })

	require.NoError(t, s.RequestRMMP(ctx))
	state, err := s.RMMPState(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RMMPObserver, state.Phase)
	assert.Equal(t, "DENIED", state.Status)

	_, err = s.WaitForRMMP(ctx, 10*time.Millisecond)
	assert.ErrorIs(t, err, apperrors.ErrPrivilegeDenied)
	assert.Equal(t, 2, fc.hitCount(resourceRMMP), "После отказа запрос можно повторить")
}

func TestRMMPRevoked(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)
	ctx := testContext(t)

	state, err := s.WaitForRMMP(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, models.RMMPModify, state.Phase)

	fc.set(func() { fc.revoked = true })
	state, err = s.RMMPState(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RMMPObserver, state.Phase)
	assert.Equal(t, "REVOKED", state.Status)
}

func TestWaitForRMMPIsBoundedByContext(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)
	fc.set(func() { fc.grantAfter = 1 << 20 })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	state, err := s.WaitForRMMP(ctx, 10*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	if state != nil {
		assert.Equal(t, models.RMMPPendingModify, state.Phase)
	}
	assert.Equal(t, models.RMMPPendingModify, s.RMMPPhase())
}

func TestRMMPPollFailureKeepsPhase(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)
	ctx := testContext(t)
	fc.set(func() { fc.grantAfter = 100 })

	require.NoError(t, s.RequestRMMP(ctx))
	fc.failOnce(resourceRMMPPoll, 503)
	_, err := s.RMMPState(ctx)
	require.Error(t, err)
	assert.Equal(t, models.RMMPPendingModify, s.RMMPPhase())
}

func TestCloseResetsRMMP(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)
	ctx := testContext(t)

	_, err := s.WaitForRMMP(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))
	assert.Equal(t, models.RMMPObserver, s.RMMPPhase())
}
