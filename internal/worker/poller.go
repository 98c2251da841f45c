package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/airport/internal/metrics"
	"github.com/Domenick1991/airport/internal/repository"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

// OutboxPoller relays committed outbox events to Kafka. Events whose publish
// fails go back to the queue and are retried on a later tick. Claims older
// than staleAfter are released first, so a crashed relay does not strand
// its batch in processing. Delivery is at least once.
type OutboxPoller struct {
	outbox     repository.OutboxRepository
	publisher  Publisher
	topic      string
	interval   time.Duration
	batchSize  int
	staleAfter time.Duration
	log        *zap.SugaredLogger
}

func NewOutboxPoller(
	outbox repository.OutboxRepository,
	publisher Publisher,
	topic string,
	interval time.Duration,
	batchSize int,
	staleAfter time.Duration,
	log *zap.SugaredLogger,
) *OutboxPoller {
	return &OutboxPoller{
		outbox:     outbox,
		publisher:  publisher,
		topic:      topic,
		interval:   interval,
		batchSize:  batchSize,
		staleAfter: staleAfter,
		log:        log,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Infow("outbox poller started", "topic", p.topic, "interval", p.interval.String())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.log.Errorw("failed to process outbox batch", "error", err)
			}
		}
	}
}

func (p *OutboxPoller) processBatch(ctx context.Context) error {
	requeued, err := p.outbox.RequeueStale(ctx, p.staleAfter)
	if err != nil {
		return err
	}
	if requeued > 0 {
		p.log.Warnw("stale outbox events requeued", "count", requeued)
	}

	events, err := p.outbox.FetchBatch(ctx, p.batchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	var processedIDs, failedIDs []string
	for _, e := range events {
		key := e.CorrelationID
		if key == "" {
			key = e.ID
		}

		sendCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		err := p.publisher.Publish(sendCtx, p.topic, key, json.RawMessage(e.Payload))
		cancel()

		if err != nil {
			p.log.Warnw("failed to publish outbox event", "event_id", e.ID, "type", e.EventType, "error", err)
			metrics.OutboxPublishErrors.Inc()
			failedIDs = append(failedIDs, e.ID)
			continue
		}
		metrics.OutboxPublished.Inc()
		processedIDs = append(processedIDs, e.ID)
	}

	if len(processedIDs) > 0 {
		if err := p.outbox.MarkProcessed(ctx, processedIDs); err != nil {
			return err
		}
		p.log.Infow("outbox events published", "count", len(processedIDs))
	}

	if len(failedIDs) > 0 {
		if err := p.outbox.MarkFailed(ctx, failedIDs); err != nil {
			p.log.Errorw("failed to requeue outbox events", "count", len(failedIDs), "error", err)
		}
	}
	return nil
}
