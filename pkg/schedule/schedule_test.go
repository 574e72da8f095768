package schedule_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/pkg/schedule"
)

func TestMatchCron(t *testing.T) {
	at := time.Date(2026, 3, 9, 3, 0, 0, 0, time.UTC) // a Monday

	cases := []struct {
		expr string
		want bool
	}{
		{"* * * * *", true},
		{"0 3 * * *", true},
		{"0 4 * * *", false},
		{"*/15 * * * *", true},
		{"0 1-5 * * 1", true},
		{"0 3 * * 0,6", false},
		{"0 3 * *", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, schedule.MatchCron(c.expr, at), c.expr)
	}
}

func TestRunAllRunsEveryEntryAndReportsFirstError(t *testing.T) {
	s := schedule.New()
	var ran int32
	s.Hourly("a", func(context.Context) error { atomic.AddInt32(&ran, 1); return nil })
	s.Daily("b", func(context.Context) error { atomic.AddInt32(&ran, 1); return errors.New("boom") })
	s.Cron("c", "0 3 * * *", func(context.Context) error { atomic.AddInt32(&ran, 1); return nil })

	err := s.RunAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b: boom")
	assert.Equal(t, int32(3), atomic.LoadInt32(&ran))
}

func TestStartDispatchesIntervalEntries(t *testing.T) {
	s := schedule.New()
	s.SetTick(5 * time.Millisecond)
	var ran int32
	s.Every("tick", 10*time.Millisecond, func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	}).WithoutOverlapping()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Start(ctx); close(done) }()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&ran) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestPanickingTaskIsReported(t *testing.T) {
	s := schedule.New()
	s.Hourly("bad", func(context.Context) error { panic("nope") })
	assert.Error(t, s.RunAll(context.Background()))
}
