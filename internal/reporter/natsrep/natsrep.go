package natsrep

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dcos/checkjob/api"
	"github.com/dcos/checkjob/internal/reporter"
	"github.com/nats-io/nats.go"
)

// Publisher is the part of *nats.Conn the reporter needs.
type Publisher interface {
	Publish(subj string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

type NatsReporter struct {
	pub     Publisher
	subject string
	log     *slog.Logger
}

// New creates a reporter that publishes lifecycle events to subject.
func New(pub Publisher, subject string) *NatsReporter {
	return &NatsReporter{
		pub:     pub,
		subject: subject,
		log:     slog.Default(),
	}
}

// Connect dials NATS and returns a reporter together with its connection.
func Connect(url string, subject string) (*NatsReporter, *nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("checkjob"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return New(nc, subject), nc, nil
}

func (r *NatsReporter) StartJob(job api.Job) {
	job.Run.Cmd = reporter.TrimToRect(job.Run.Cmd, api.MaxEventTextHeight, api.MaxEventTextWidth)
	r.send(api.NewStartJobEvent(job))
}

func (r *NatsReporter) FinishJob(job api.Job, err error) {
	msg := reporter.ErrorMessage(err, api.MaxEventTextHeight, api.MaxEventTextWidth)
	r.send(api.NewFinishJobEvent(job.ID, msg))
}

func (r *NatsReporter) send(msg interface{}) {
	b, err := json.Marshal(msg)
	if err != nil {
		r.log.Error("failed to marshal message", "err", err)
		return
	}

	if err := r.pub.Publish(r.subject, b); err != nil {
		r.log.Error("failed to publish message to NATS", "subject", r.subject, "err", err)
	}
}
