package email

import (
	"context"
	"log"

	"github.com/Domenick1991/mataju/internal/kafka"
)

// Sender delivers booking notifications. The current implementation
// only logs; SMTP делаем позже.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log.Printf("notify user %d: %s for booking %s (unit %d, status %s)",
		event.UserID, event.Type, event.Reference, event.UnitID, event.Status)
	return nil
}
