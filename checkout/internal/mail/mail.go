package mail

import "context"

type Message struct {
	To      string
	Subject string
	Content string
}

// Mailer delivers transactional mail. Checkout treats delivery as best
// effort, so implementations should report failures through the returned
// error and nothing else.
type Mailer interface {
	Send(c context.Context, msg Message) error
}
