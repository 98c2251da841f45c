package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	OutboxStatusNew        = "new"
	OutboxStatusProcessing = "processing"
	OutboxStatusProcessed  = "processed"
)

type OutboxEvent struct {
	ID            string
	EventType     string
	Payload       []byte
	Status        string
	CorrelationID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) error
	// FetchBatch claims up to limit new events for this relay.
	FetchBatch(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkProcessed(ctx context.Context, ids []string) error
	// MarkFailed returns events to the queue.
	MarkFailed(ctx context.Context, ids []string) error
	// RequeueStale returns events claimed more than olderThan ago to the
	// queue, covering a relay that died between claim and publish.
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type PGOutboxRepository struct {
	db *pgxpool.Pool
}

func NewOutboxRepository(db *pgxpool.Pool) OutboxRepository {
	return &PGOutboxRepository{db: db}
}

func (r *PGOutboxRepository) Create(ctx context.Context, e *OutboxEvent) error {
	if e.Status == "" {
		e.Status = OutboxStatusNew
	}
	_, err := conn(ctx, r.db).Exec(ctx, `INSERT INTO outbox (id, event_type, payload, status, correlation_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, now())`,
		e.ID, e.EventType, e.Payload, e.Status, e.CorrelationID, e.CreatedAt)
	return translate("insert outbox event", err)
}

func (r *PGOutboxRepository) FetchBatch(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		WITH claimed AS (
			SELECT id
			FROM outbox
			WHERE status = $2
			ORDER BY created_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE outbox
		SET status = $3, updated_at = now()
		WHERE id IN (SELECT id FROM claimed)
		RETURNING id, event_type, payload, status, COALESCE(correlation_id, ''), created_at, updated_at`,
		limit, OutboxStatusNew, OutboxStatusProcessing)
	if err != nil {
		return nil, translate("claim outbox batch", err)
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &e.Status, &e.CorrelationID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, translate("scan outbox event", err)
		}
		events = append(events, e)
	}
	return events, translate("claim outbox batch", rows.Err())
}

func (r *PGOutboxRepository) MarkProcessed(ctx context.Context, ids []string) error {
	return r.setStatus(ctx, "mark outbox processed", OutboxStatusProcessed, ids)
}

func (r *PGOutboxRepository) MarkFailed(ctx context.Context, ids []string) error {
	return r.setStatus(ctx, "mark outbox failed", OutboxStatusNew, ids)
}

const requeueStaleSQL = `UPDATE outbox SET status=$1, updated_at=now()
	WHERE status=$2 AND updated_at < now() - make_interval(secs => $3)`

func (r *PGOutboxRepository) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := conn(ctx, r.db).Exec(ctx, requeueStaleSQL, OutboxStatusNew, OutboxStatusProcessing, olderThan.Seconds())
	if err != nil {
		return 0, translate("requeue stale outbox events", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PGOutboxRepository) setStatus(ctx context.Context, op, status string, ids []string) error {
	_, err := conn(ctx, r.db).Exec(ctx, `UPDATE outbox SET status=$1, updated_at=now() WHERE id::text = ANY($2)`, status, ids)
	return translate(op, err)
}

var _ OutboxRepository = (*PGOutboxRepository)(nil)
