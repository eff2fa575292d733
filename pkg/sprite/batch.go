package sprite

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Run processes ids sequentially. Cancellation is honored between
// identifiers, never mid-image, so outputs already renamed into place stay
// intact. Returns the aggregated Summary; failures never abort the batch.
func (p *Pipeline) Run(ctx context.Context, ids []int) Summary {
	var s Summary

	for i, id := range ids {
		select {
		case <-ctx.Done():
			p.log.Info("batch cancelled", zap.Int("remaining", len(ids)-i))
			return s
		default:
		}

		res := p.Process(ctx, id)
		s.add(res)

		if res.Status == StatusFailed {
			p.log.With(zap.Int("id", id), zap.Error(res.Err)).Info("identifier failed")
		}

		if p.observer != nil {
			p.observer(res)
		}

		if res.Acquired && p.delay > 0 && i < len(ids)-1 {
			select {
			case <-ctx.Done():
				p.log.Info("batch cancelled", zap.Int("remaining", len(ids)-i-1))
				return s
			case <-time.After(p.delay):
			}
		}
	}

	return s
}
