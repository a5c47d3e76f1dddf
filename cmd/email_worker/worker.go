package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-auth/pkg/helpers"
	"github.com/oksasatya/campus-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/campus-auth/pkg/mailer/templates"
)

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string, tags ...string) error
}

// errPermanent marks jobs that will never succeed and must not be requeued.
var errPermanent = errors.New("permanent job failure")

type worker struct {
	sender   Sender
	logger   *logrus.Logger
	defaults map[string]string
	timeout  time.Duration
}

// handle decodes, renders and sends one queued job.
func (w *worker) handle(ctx context.Context, body []byte) error {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", errPermanent, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", errPermanent)
	}

	helpers.EnsureRecipientAndEmail(&job)
	helpers.WithDefaults(&job, w.defaults)

	subject, text, html := job.Subject, job.Text, job.HTML
	var tags []string
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", errPermanent, job.Template, err)
		}
		subject, text, html = s, t, h
		tags = append(tags, job.Template)
	}
	if subject == "" {
		return fmt.Errorf("%w: empty subject", errPermanent)
	}

	c, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html, tags...); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	w.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return nil
}
