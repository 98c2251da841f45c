package worker

import (
	"context"
	"encoding/json"

	"github.com/Domenick1991/airport/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type OrderSender interface {
	Send(ctx context.Context, event kafka.OrderEvent) error
}

// Notifier turns order events from the orders topic into confirmations.
// Undecodable or unknown messages are logged and skipped so they do not block
// the partition.
type Notifier struct {
	sender OrderSender
	log    *zap.SugaredLogger
}

func NewNotifier(sender OrderSender, log *zap.SugaredLogger) *Notifier {
	return &Notifier{sender: sender, log: log}
}

func (n *Notifier) Handle(ctx context.Context, msg kafkago.Message) error {
	var event kafka.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		n.log.Warnw("decode order event", "offset", msg.Offset, "error", err)
		return nil
	}
	if event.Type != kafka.EventOrderCreated {
		n.log.Debugw("skipping event", "type", event.Type, "offset", msg.Offset)
		return nil
	}
	return n.sender.Send(ctx, event)
}
