package scheduler

import (
	"context"
	"time"

	"sentinela_corte_bot/internal/app"
	"sentinela_corte_bot/internal/infra/config"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Gate is the decision entry point the scheduler drives. A tick never
// returns an error: every failure is absorbed inside the gate and
// retried on a later tick.
type Gate interface {
	EvaluateTick(ctx context.Context, now time.Time) app.Outcome
	EvaluateScheduled(ctx context.Context, now time.Time) app.Outcome
}

// ReportScheduler runs the standing loop in one of three modes: a
// fixed-interval poll, a weekly agenda, or a cron spec.
type ReportScheduler struct {
	gate       Gate
	logger     *logrus.Logger
	mode       string
	interval   time.Duration
	agenda     *config.Agenda
	cronSpec   string
	cronEngine *cron.Cron
	stop       chan struct{}
	done       chan struct{}
}

func NewReportScheduler(gate Gate, logger *logrus.Logger, cfg *config.AppConfig, agenda *config.Agenda) *ReportScheduler {
	return &ReportScheduler{
		gate:     gate,
		logger:   logger,
		mode:     cfg.ScheduleMode,
		interval: cfg.PollInterval,
		agenda:   agenda,
		cronSpec: cfg.CronSpec,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the loop. It returns an error only for an invalid
// cron spec; everything after startup is absorbed and retried.
func (s *ReportScheduler) Start() error {
	switch s.mode {
	case config.ModeCron:
		s.cronEngine = cron.New(cron.WithLocation(time.Local))
		_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
			s.logger.Debug("Cron trigger: evaluating report gate.")
			s.evaluateScheduled()
		})
		if err != nil {
			return err
		}
		s.cronEngine.Start()
		close(s.done)
		s.logger.Infof("Scheduler started (cron %q).", s.cronSpec)
	case config.ModeAgenda:
		go s.runAgenda()
		s.logger.Info("Scheduler started (weekly agenda).")
	default:
		go s.runPoll()
		s.logger.Infof("Scheduler started (poll every %s).", s.interval)
	}
	return nil
}

// Stop terminates the loop and waits for the in-flight tick, if any.
// An in-flight send is never cancelled once started.
func (s *ReportScheduler) Stop() {
	s.logger.Info("Stopping scheduler...")
	close(s.stop)
	if s.cronEngine != nil {
		<-s.cronEngine.Stop().Done()
	}
	<-s.done
	s.logger.Info("Scheduler stopped.")
}

func (s *ReportScheduler) runPoll() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// First evaluation happens on entry, not one interval later. A
	// process started after the target time must not idle a full poll
	// period before deciding.
	outcome := s.gate.EvaluateTick(context.Background(), time.Now())
	s.logOutcome(outcome)

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			outcome := s.gate.EvaluateTick(context.Background(), time.Now())
			s.logOutcome(outcome)
		}
	}
}

func (s *ReportScheduler) runAgenda() {
	defer close(s.done)
	for {
		next := NextRun(s.agenda, time.Now())
		s.logger.Infof("Next scheduled evaluation: %s", next.Format("2006-01-02 15:04:05"))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.stop:
			timer.Stop()
			return
		case <-timer.C:
			s.evaluateScheduled()
		}
	}
}

func (s *ReportScheduler) evaluateScheduled() {
	outcome := s.gate.EvaluateScheduled(context.Background(), time.Now())
	s.logOutcome(outcome)
}

func (s *ReportScheduler) logOutcome(outcome app.Outcome) {
	switch outcome {
	case app.OutcomeNotDue, app.OutcomeAlreadyHandled:
		s.logger.Debugf("Tick outcome: %s", outcome)
	default:
		s.logger.Infof("Tick outcome: %s", outcome)
	}
}
