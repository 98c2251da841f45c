package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/airport/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers order confirmations. Delivery is a structured log line;
// account addresses live with the identity collaborator.
type Sender struct {
	log *zap.SugaredLogger
}

func NewSender(log *zap.SugaredLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(_ context.Context, event kafka.OrderEvent) error {
	places := make([]string, 0, len(event.Tickets))
	for _, t := range event.Tickets {
		places = append(places, formatPlace(t))
	}
	s.log.Infow("order confirmation sent",
		"user_id", event.UserID,
		"order_id", event.OrderID,
		"tickets", len(event.Tickets),
		"places", strings.Join(places, "; "),
	)
	return nil
}

func formatPlace(t kafka.TicketEvent) string {
	return fmt.Sprintf("flight %d row %d seat %d", t.FlightID, t.Row, t.Seat)
}
