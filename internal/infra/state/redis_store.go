package state

import (
	"context"
	"fmt"
	"time"

	"sentinela_corte_bot/internal/domain/report"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	redisStateKey    = "sentinela:corte:run_state"
	fieldLastSent    = "last_sent_date"
	fieldClosingKey  = "last_fechamento_key"
	fieldUpdatedUnix = "updated_at"
)

// RedisStore keeps the run state in a Redis hash.
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisStore(client *redis.Client, logger *logrus.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func (s *RedisStore) Load(ctx context.Context) (report.RunState, error) {
	fields, err := s.client.HGetAll(ctx, redisStateKey).Result()
	if err != nil {
		return report.RunState{}, fmt.Errorf("error loading run state: %w", err)
	}
	if len(fields) == 0 {
		return report.RunState{}, nil
	}

	st := report.RunState{LastClosingPeriod: fields[fieldClosingKey]}
	if raw := fields[fieldLastSent]; raw != "" {
		d, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			s.logger.Warnf("Run state has invalid %s %q; starting fresh.", fieldLastSent, raw)
			return report.RunState{}, nil
		}
		st.LastSentDate = d
	}
	return st, nil
}

func (s *RedisStore) Save(ctx context.Context, st report.RunState) error {
	fields := map[string]any{
		fieldLastSent:    "",
		fieldClosingKey:  st.LastClosingPeriod,
		fieldUpdatedUnix: time.Now().Unix(),
	}
	if !st.LastSentDate.IsZero() {
		fields[fieldLastSent] = st.LastSentDate.Format(dateLayout)
	}
	if err := s.client.HSet(ctx, redisStateKey, fields).Err(); err != nil {
		return fmt.Errorf("error saving run state: %w", err)
	}
	return nil
}
