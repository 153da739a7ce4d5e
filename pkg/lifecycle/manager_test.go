package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleClosesOnShutdown(t *testing.T) {
	m := NewManager()
	handle, err := m.NewServiceHandle("worker")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer handle.Close()
		<-handle.Done()
		close(done)
	}()

	m.Shutdown()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("服务未响应停机信号")
	}
	assert.Empty(t, m.WaitWithTimeout(time.Second))
}

func TestDuplicateServiceNameRejected(t *testing.T) {
	m := NewManager()
	_, err := m.NewServiceHandle("worker")
	require.NoError(t, err)
	_, err = m.NewServiceHandle("worker")
	assert.Error(t, err)
}

func TestWaitWithTimeoutReportsStragglers(t *testing.T) {
	m := NewManager()
	_, err := m.NewServiceHandle("stuck")
	require.NoError(t, err)

	m.Shutdown()
	remaining := m.WaitWithTimeout(10 * time.Millisecond)
	assert.Equal(t, []string{"stuck"}, remaining)
}

func TestSleepInterruptedByShutdown(t *testing.T) {
	m := NewManager()
	handle, err := m.NewServiceHandle("sleeper")
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		m.Shutdown()
	}()

	start := time.Now()
	err = handle.Sleep(5 * time.Second)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
	handle.Close()
}
