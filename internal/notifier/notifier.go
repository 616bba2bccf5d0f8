// internal/notifier/notifier.go

// Package notifier defines the outbound notification capability the
// dispatcher depends on, plus the production AWS SES implementation. The
// dispatcher only ever sees the Notifier interface, so tests swap in a
// fake without touching transport code.
package notifier

import "context"

// Message is one outbound notification. HTMLBody and ReplyTo are optional.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
	ReplyTo  string
}

// SendResult is the settled result of one send attempt. Implementations
// report failure through the Error field instead of panicking; a panic is
// still tolerated at the dispatch boundary but treated as a defect.
type SendResult struct {
	OK    bool
	ID    string
	Error string
}

// Notifier sends a single notification. Implementations must be safe for
// concurrent use; the dispatcher fans out one Send per target.
type Notifier interface {
	Send(ctx context.Context, msg Message) SendResult
}
