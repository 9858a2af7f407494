package mail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/codetube-labs/codetube/services/logging"
	"github.com/codetube-labs/codetube/services/verification"
	"go.uber.org/zap"
)

// Dispatcher decouples code issuance from SMTP. Issuance enqueues and moves
// on; a single worker drains the queue and absorbs delivery failures. When
// the queue is full the job is dropped, logged, and issuance still succeeds.
type Dispatcher struct {
	sender  Sender
	logger  *logging.Service
	appName string
	jobs    chan job
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

type job struct {
	to       string
	subject  string
	template string
	data     map[string]any
	fallback string
}

func NewDispatcher(sender Sender, logger *logging.Service, appName string, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		appName: appName,
		jobs:    make(chan job, queueSize),
		done:    make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	go d.run()
}

// Stop drains the queue and waits for the worker. Producers may still call
// NotifyCode during and after shutdown (the server can outlive the
// dispatcher in the stop sequence); those jobs are dropped, never panicked
// on.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.jobs {
		if d.sender == nil {
			d.logger.Warn("mail delivery not configured, dropping email",
				zap.String("to", j.to))
			continue
		}
		err := d.sender.SendTemplate(j.template, []string{j.to}, j.subject, j.data)
		if err != nil && j.fallback != "" {
			err = d.sender.SendPlain([]string{j.to}, j.subject, j.fallback)
		}
		if err != nil {
			d.logger.Error("failed to deliver notification email",
				zap.Error(err),
				zap.String("to", j.to),
				zap.String("template", j.template))
		}
	}
}

// NotifyCode implements verification.Notifier.
func (d *Dispatcher) NotifyCode(email, code string, purpose verification.Purpose, expiresIn time.Duration) {
	subject := fmt.Sprintf("Your %s verification code", d.appName)
	template := "verification_code"
	if purpose == verification.PurposePasswordReset {
		subject = fmt.Sprintf("Your %s password reset code", d.appName)
		template = "password_reset_code"
	}

	j := job{
		to:       email,
		subject:  subject,
		template: template,
		data: map[string]any{
			"Code":      code,
			"ExpiresIn": expiresIn.String(),
			"AppName":   d.appName,
		},
		fallback: fmt.Sprintf("Your %s verification code is %s. It expires in %s.",
			d.appName, code, expiresIn),
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn("dispatcher stopped, dropping email",
			zap.String("to", email))
		return
	}

	select {
	case d.jobs <- j:
	default:
		d.logger.Warn("notification queue full, dropping email",
			zap.String("to", email))
	}
}
