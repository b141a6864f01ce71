package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

func newTestActuator() (*Actuator, *MockProcessManager, *MockBlockStore) {
	procs := new(MockProcessManager)
	store := new(MockBlockStore)
	return NewActuator(procs, store, "Wellbeingd", zap.NewNop()), procs, store
}

func TestBlockWritesIntentBeforeTerminating(t *testing.T) {
	a, procs, store := newTestActuator()

	var order []string
	store.On("MarkBlocked", "Steam", true).Run(func(mock.Arguments) {
		order = append(order, "mark")
	}).Return(nil).Once()
	procs.On("FindByExactName", "Steam").Run(func(mock.Arguments) {
		order = append(order, "find")
	}).Return([]int{101, 102}, nil).Once()
	procs.On("GetCurrentPID").Return(999)
	procs.On("Terminate", 101).Return(nil).Once()
	procs.On("Terminate", 102).Return(nil).Once()

	require.NoError(t, a.Block("Steam", domain.BlockReasonLimit))

	assert.Equal(t, []string{"mark", "find"}, order)
	assert.True(t, a.IsBlocked("Steam", time.Now()))
	procs.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestBlockRejectsInvalidName(t *testing.T) {
	a, procs, store := newTestActuator()

	err := a.Block("rm;reboot", domain.BlockReasonLimit)
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	procs.AssertNotCalled(t, "FindByExactName", mock.Anything)
	store.AssertNotCalled(t, "MarkBlocked", mock.Anything, mock.Anything)
}

func TestBlockRefusesSelf(t *testing.T) {
	a, procs, _ := newTestActuator()

	err := a.Block("Wellbeingd", domain.BlockReasonFocus)
	assert.Error(t, err)
	procs.AssertNotCalled(t, "FindByExactName", mock.Anything)
}

func TestBlockNeverTerminatesOwnPID(t *testing.T) {
	a, procs, store := newTestActuator()

	store.On("MarkBlocked", "Steam", true).Return(nil)
	procs.On("FindByExactName", "Steam").Return([]int{999, 101}, nil)
	procs.On("GetCurrentPID").Return(999)
	procs.On("Terminate", 101).Return(nil).Once()

	require.NoError(t, a.Block("Steam", domain.BlockReasonLimit))

	procs.AssertNotCalled(t, "Terminate", 999)
}

func TestFocusBlockSkipsDurableIntent(t *testing.T) {
	a, procs, store := newTestActuator()

	procs.On("FindByExactName", "Slack").Return(nil, nil)

	require.NoError(t, a.Block("Slack", domain.BlockReasonFocus))

	store.AssertNotCalled(t, "MarkBlocked", mock.Anything, mock.Anything)
	assert.True(t, a.IsBlocked("Slack", time.Now()))
}

func TestEmergencyGrantSuspendsThenResumes(t *testing.T) {
	a, procs, store := newTestActuator()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)

	store.On("MarkBlocked", "Steam", true).Return(nil)
	procs.On("FindByExactName", "Steam").Return([]int{101}, nil)
	procs.On("GetCurrentPID").Return(999)
	procs.On("Terminate", 101).Return(nil)

	require.NoError(t, a.Block("Steam", domain.BlockReasonLimit))
	require.NoError(t, a.GrantEmergency("Steam", 10*time.Minute, now))

	// Inside the grant the app is usable and enforcement skips it.
	assert.False(t, a.IsBlocked("Steam", now.Add(5*time.Minute)))
	procs.Calls = nil
	a.EnforceTick(now.Add(5 * time.Minute))
	procs.AssertNotCalled(t, "FindByExactName", mock.Anything)

	// After expiry the block resumes on the next tick.
	a.EnforceTick(now.Add(11 * time.Minute))
	procs.AssertCalled(t, "FindByExactName", "Steam")
	assert.True(t, a.IsBlocked("Steam", now.Add(12*time.Minute)))

	_, stillGranted := a.GrantExpiry("Steam")
	assert.False(t, stillGranted)
}

func TestGrantRequiresBlockedApp(t *testing.T) {
	a, _, _ := newTestActuator()

	err := a.GrantEmergency("Steam", 10*time.Minute, time.Now())
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestRebuildRestoresOnlyStillExceeded(t *testing.T) {
	a, _, store := newTestActuator()

	store.On("BlockedAppNames").Return([]string{"Steam", "Slack"}, nil)
	store.On("AllLimitStatus").Return([]domain.LimitStatus{
		{AppName: "Steam", DailyLimitMinutes: 60, UsedSeconds: 3600, BlockWhenExceeded: true},
		{AppName: "Slack", DailyLimitMinutes: 60, UsedSeconds: 100, BlockWhenExceeded: true},
	}, nil)
	store.On("MarkBlocked", "Slack", false).Return(nil).Once()

	require.NoError(t, a.Rebuild())

	assert.True(t, a.IsBlocked("Steam", time.Now()))
	assert.False(t, a.IsBlocked("Slack", time.Now()))
	store.AssertExpectations(t)
}

func TestResetDayClearsLimitBlocksKeepsFocus(t *testing.T) {
	a, procs, store := newTestActuator()

	store.On("MarkBlocked", "Steam", true).Return(nil)
	store.On("MarkBlocked", "Steam", false).Return(nil).Once()
	procs.On("FindByExactName", mock.Anything).Return(nil, nil)
	procs.On("GetCurrentPID").Return(999)

	require.NoError(t, a.Block("Steam", domain.BlockReasonLimit))
	require.NoError(t, a.Block("Slack", domain.BlockReasonFocus))

	a.ResetDay()

	assert.False(t, a.IsBlocked("Steam", time.Now()))
	assert.True(t, a.IsBlocked("Slack", time.Now()))
	store.AssertExpectations(t)
}

func TestUnblockByReason(t *testing.T) {
	a, procs, store := newTestActuator()

	store.On("MarkBlocked", "Steam", true).Return(nil)
	procs.On("FindByExactName", mock.Anything).Return(nil, nil)
	procs.On("GetCurrentPID").Return(999)

	require.NoError(t, a.Block("Steam", domain.BlockReasonLimit))
	require.NoError(t, a.Block("Slack", domain.BlockReasonFocus))

	a.UnblockByReason(domain.BlockReasonFocus)

	assert.False(t, a.IsBlocked("Slack", time.Now()))
	assert.True(t, a.IsBlocked("Steam", time.Now()))
}
