package scheduler

import (
	"context"
	"io"
	"testing"
	"time"

	"sentinela_corte_bot/internal/app"
	"sentinela_corte_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

type tickRecorder struct {
	ticked chan time.Time
}

func newTickRecorder() *tickRecorder {
	return &tickRecorder{ticked: make(chan time.Time, 8)}
}

func (r *tickRecorder) EvaluateTick(_ context.Context, now time.Time) app.Outcome {
	r.ticked <- now
	return app.OutcomeNotDue
}

func (r *tickRecorder) EvaluateScheduled(_ context.Context, now time.Time) app.Outcome {
	r.ticked <- now
	return app.OutcomeNotDue
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Poll mode evaluates once on entry. With a one-hour interval the only
// tick a short test can observe is that first one.
func TestPollEvaluatesImmediatelyOnStart(t *testing.T) {
	gate := newTickRecorder()
	cfg := &config.AppConfig{ScheduleMode: config.ModePoll, PollInterval: time.Hour}
	sched := NewReportScheduler(gate, quietLogger(), cfg, nil)

	if err := sched.Start(); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	defer sched.Stop()

	select {
	case <-gate.ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("no evaluation within 2s of start; first tick waited for the interval")
	}
}

func TestPollStopTerminatesLoop(t *testing.T) {
	gate := newTickRecorder()
	cfg := &config.AppConfig{ScheduleMode: config.ModePoll, PollInterval: time.Hour}
	sched := NewReportScheduler(gate, quietLogger(), cfg, nil)

	if err := sched.Start(); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	<-gate.ticked

	stopped := make(chan struct{})
	go func() {
		sched.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return within 2s")
	}
}
