package mail

import (
	"context"

	"github.com/baechuer/contacts-service/internal/application/auth"
)

type enqueuer interface {
	Enqueue(m Message) error
}

// Dispatcher turns auth events into queued emails. It implements
// auth.EventPublisher.
type Dispatcher struct {
	q enqueuer
}

func NewDispatcher(q enqueuer) *Dispatcher {
	return &Dispatcher{q: q}
}

func (d *Dispatcher) PublishVerifyEmail(ctx context.Context, evt auth.VerifyEmailEvent) error {
	body, err := RenderVerification(evt.URL)
	if err != nil {
		return err
	}
	return d.q.Enqueue(Message{
		To:       evt.Email,
		Subject:  VerificationSubject,
		HTMLBody: body,
	})
}
