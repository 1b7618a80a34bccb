package mail

import "context"

// Message is one outbound email with an HTML body.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

/*
Sender
------
Delivers a single message. Implementations: LogSender (dev), SMTPSender, and
the RabbitMQ sender in messaging/rabbitmq.
*/
type Sender interface {
	Send(ctx context.Context, m Message) error
	Name() string
}
