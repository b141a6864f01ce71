package usecase

import (
	"github.com/stretchr/testify/mock"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

type MockWindowQuerier struct {
	mock.Mock
}

func (m *MockWindowQuerier) ActiveWindow() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) StartSession(appName string, start int64) (int64, error) {
	args := m.Called(appName, start)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionStore) UpdateSessionProgress(sessionID int64, end int64) error {
	args := m.Called(sessionID, end)
	return args.Error(0)
}

func (m *MockSessionStore) CloseSession(sessionID int64, end int64) error {
	args := m.Called(sessionID, end)
	return args.Error(0)
}

type MockProcessManager struct {
	mock.Mock
}

func (m *MockProcessManager) FindByExactName(name string) ([]int, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockProcessManager) Terminate(pid int) error {
	args := m.Called(pid)
	return args.Error(0)
}

func (m *MockProcessManager) IsRunning(pid int) bool {
	args := m.Called(pid)
	return args.Bool(0)
}

func (m *MockProcessManager) GetCurrentPID() int {
	args := m.Called()
	return args.Int(0)
}

type MockBlockStore struct {
	mock.Mock
}

func (m *MockBlockStore) MarkBlocked(appName string, blocked bool) error {
	args := m.Called(appName, blocked)
	return args.Error(0)
}

func (m *MockBlockStore) BlockedAppNames() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBlockStore) AllLimitStatus() ([]domain.LimitStatus, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LimitStatus), args.Error(1)
}

var (
	_ sessionStore          = (*MockSessionStore)(nil)
	_ blockStore            = (*MockBlockStore)(nil)
	_ domain.WindowQuerier  = (*MockWindowQuerier)(nil)
	_ domain.ProcessManager = (*MockProcessManager)(nil)
)
