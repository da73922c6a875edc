// Package mailer delivers password-reset codes to users. Senders are
// plugged behind the Sender interface; Queue makes any of them
// asynchronous.
package mailer

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by Queue when no buffer slot is free.
var ErrQueueFull = errors.New("mail queue is full")

// Sender hands a reset code to the user identified by email.
type Sender interface {
	SendResetCode(ctx context.Context, email, code string) error
}

const resetSubject = "Your password reset code"

func resetBody(code string) string {
	return "Your password reset code is: " + code + "\r\n" +
		"The code expires in 10 minutes. If you did not request it, ignore this message.\r\n"
}
