package report

import (
	"context"
	"time"
)

// Producer builds and dispatches one report for the given period. The
// gate only cares whether the whole produce-and-send unit succeeded.
type Producer interface {
	ProduceAndSend(ctx context.Context, now time.Time, period Period) error
}
