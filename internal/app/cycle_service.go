package app

import (
	"context"
	"fmt"
	"time"

	"sentinela_corte_bot/internal/domain/alert"
	"sentinela_corte_bot/internal/domain/report"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Outcome is the terminal result of one gate evaluation. The gate
// returns to idle after every tick; there is no terminal state for the
// process itself.
type Outcome string

const (
	// OutcomeNotDue means the time-of-day guard failed; nothing happened.
	OutcomeNotDue Outcome = "NOT_DUE"
	// OutcomeAlreadyHandled means today was already decided.
	OutcomeAlreadyHandled Outcome = "ALREADY_HANDLED"
	// OutcomeSent means a report went out and state advanced.
	OutcomeSent Outcome = "SENT"
	// OutcomeSkippedNoData means the day was marked handled without a send.
	OutcomeSkippedNoData Outcome = "SKIPPED_NO_DATA"
	// OutcomeFailed means the cycle aborted; state was not advanced and
	// the next tick within the same day retries.
	OutcomeFailed Outcome = "FAILED"
)

// CycleService decides whether and how a report cycle runs.
type CycleService interface {
	// EvaluateTick runs one guarded gate decision for "now".
	EvaluateTick(ctx context.Context, now time.Time) Outcome
	// RunManual produces and sends one report immediately, bypassing
	// every guard and leaving the run state untouched.
	RunManual(ctx context.Context, now time.Time) error
}

// CycleServiceImpl implements CycleService over the persisted run
// state, the movement oracle and the report producer.
type CycleServiceImpl struct {
	store      report.StateStore
	oracle     report.MovementOracle
	producer   report.Producer
	alerter    alert.Alerter
	logger     *logrus.Logger
	targetTime time.Duration // offset from local midnight, e.g. 8h for 08:00
	categories []string
	combine    report.Combine
}

func NewCycleService(
	store report.StateStore,
	oracle report.MovementOracle,
	producer report.Producer,
	alerter alert.Alerter,
	logger *logrus.Logger,
	targetTime time.Duration,
	categories []string,
	combine report.Combine,
) *CycleServiceImpl {
	if alerter == nil {
		alerter = alert.Nop{}
	}
	return &CycleServiceImpl{
		store:      store,
		oracle:     oracle,
		producer:   producer,
		alerter:    alerter,
		logger:     logger,
		targetTime: targetTime,
		categories: categories,
		combine:    combine,
	}
}

// EvaluateTick applies the guard (time-of-day and once-per-day) before
// deciding. It is called from the polling loop once per tick.
func (s *CycleServiceImpl) EvaluateTick(ctx context.Context, now time.Time) Outcome {
	return s.evaluate(ctx, now, true)
}

// EvaluateScheduled is the agenda/cron entry point: the slot itself is
// the time authority, so only the once-per-day guard applies.
func (s *CycleServiceImpl) EvaluateScheduled(ctx context.Context, now time.Time) Outcome {
	return s.evaluate(ctx, now, false)
}

func (s *CycleServiceImpl) evaluate(ctx context.Context, now time.Time, enforceTargetTime bool) Outcome {
	if enforceTargetTime && sinceMidnight(now) < s.targetTime {
		return OutcomeNotDue
	}

	state, err := s.store.Load(ctx)
	if err != nil {
		// Load is specified to absorb corruption; an error here is an
		// unreachable store, which is transient like everything else.
		s.logger.Errorf("Cycle aborted: could not load run state: %v", err)
		return OutcomeFailed
	}
	if state.HandledOn(now) {
		return OutcomeAlreadyHandled
	}

	cycleID := uuid.NewString()
	log := s.logger.WithField("cycle_id", cycleID)

	if now.Day() == 1 {
		return s.runClosing(ctx, log, now, state)
	}
	return s.runDaily(ctx, log, now, state)
}

func (s *CycleServiceImpl) runClosing(ctx context.Context, log *logrus.Entry, now time.Time, state report.RunState) Outcome {
	key := report.ClosingKey(now)

	if key == state.LastClosingPeriod {
		log.Infof("Closing for %s already sent; marking day as handled.", key)
		state.LastSentDate = now
		s.saveState(ctx, log, state)
		return OutcomeSkippedNoData
	}

	period := report.MonthWindow(now)
	log.Infof("Closing cycle detected (%s). Sending %q...", key, period.Label)
	if err := s.producer.ProduceAndSend(ctx, now, period); err != nil {
		log.Errorf("Closing cycle failed: %v", err)
		s.alerter.Notify(fmt.Sprintf("Sentinela Corte: falha no fechamento %s: %v", key, err))
		return OutcomeFailed
	}

	state.LastClosingPeriod = key
	state.LastSentDate = now
	s.saveState(ctx, log, state)
	log.Infof("Closing report for %s sent.", key)
	return OutcomeSent
}

func (s *CycleServiceImpl) runDaily(ctx context.Context, log *logrus.Entry, now time.Time, state report.RunState) Outcome {
	yStart, yEnd := report.YesterdayWindow(now)
	moved, err := report.HasMovement(ctx, s.oracle, yStart, yEnd, s.categories, s.combine)
	if err != nil {
		log.Errorf("Daily cycle failed: movement check: %v", err)
		s.alerter.Notify(fmt.Sprintf("Sentinela Corte: falha na checagem de movimento: %v", err))
		return OutcomeFailed
	}

	if !moved {
		log.Info("No movement yesterday; daily report not sent, day marked as handled.")
		state.LastSentDate = now
		s.saveState(ctx, log, state)
		return OutcomeSkippedNoData
	}

	period := report.MonthWindow(now)
	log.Infof("Movement detected yesterday. Sending daily report %q...", period.Label)
	if err := s.producer.ProduceAndSend(ctx, now, period); err != nil {
		log.Errorf("Daily cycle failed: %v", err)
		s.alerter.Notify(fmt.Sprintf("Sentinela Corte: falha no envio diário: %v", err))
		return OutcomeFailed
	}

	state.LastSentDate = now
	s.saveState(ctx, log, state)
	log.Info("Daily report sent.")
	return OutcomeSent
}

// saveState persists after a decided cycle. A failed save after a
// successful send cannot undo the send; it is logged and alerted so an
// operator can intervene before the next restart risks a duplicate.
func (s *CycleServiceImpl) saveState(ctx context.Context, log *logrus.Entry, state report.RunState) {
	if err := s.store.Save(ctx, state); err != nil {
		log.Errorf("Could not save run state: %v", err)
		s.alerter.Notify(fmt.Sprintf("Sentinela Corte: falha ao salvar estado: %v", err))
	}
}

// RunManual mirrors the "--mode manual" entry: one unconditional send
// for the current period, with no guard and no state mutation.
func (s *CycleServiceImpl) RunManual(ctx context.Context, now time.Time) error {
	period := report.MonthWindow(now)
	s.logger.Infof("Manual cycle: sending %q now.", period.Label)
	if err := s.producer.ProduceAndSend(ctx, now, period); err != nil {
		return fmt.Errorf("manual cycle: %w", err)
	}
	return nil
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}
