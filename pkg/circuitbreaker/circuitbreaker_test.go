package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errService = errors.New("service unavailable")

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := New("test", Config{
		Timeout: time.Minute,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return errService })
		assert.ErrorIs(t, err, errService)
	}

	assert.Equal(t, StateOpen, cb.State())

	// 打开状态下快速失败,请求不会到达下游
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsConsecutiveFailures(t *testing.T) {
	cb := New("test", Config{
		Timeout: time.Minute,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	for i := 0; i < 2; i++ {
		_ = cb.Execute(func() error { return errService })
	}
	require.NoError(t, cb.Execute(func() error { return nil }))
	for i := 0; i < 2; i++ {
		_ = cb.Execute(func() error { return errService })
	}

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := New("test", Config{
		MaxRequests: 1,
		Timeout:     50 * time.Millisecond,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})

	_ = cb.Execute(func() error { return errService })
	require.Equal(t, StateOpen, cb.State())

	// 超时后进入半开,探测成功则恢复关闭
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := New("test", Config{
		MaxRequests: 1,
		Timeout:     50 * time.Millisecond,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})

	_ = cb.Execute(func() error { return errService })
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	_ = cb.Execute(func() error { return errService })
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	cb := New("test", Config{
		MaxRequests: 1,
		Timeout:     50 * time.Millisecond,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})

	_ = cb.Execute(func() error { return errService })
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	// 占用唯一的探测名额(阻塞在请求中)
	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = cb.Execute(func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrTooManyRequests)
	close(release)
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string
	cb := New("publisher", Config{
		Timeout: time.Minute,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	_ = cb.Execute(func() error { return errService })
	assert.Equal(t, []string{"CLOSED->OPEN"}, transitions)
}

func TestCounts_FailureRate(t *testing.T) {
	c := Counts{}
	assert.Equal(t, 0.0, c.FailureRate())

	c = Counts{Requests: 10, TotalFailures: 3}
	assert.InDelta(t, 0.3, c.FailureRate(), 1e-9)
}
