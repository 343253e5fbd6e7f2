package sqsrep

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/dcos/checkjob/api"
	"github.com/dcos/checkjob/internal/reporter"
)

// SendMessageAPI is the part of *sqs.Client the reporter needs.
type SendMessageAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type SqsReporter struct {
	client   SendMessageAPI
	queueUrl string
	log      *slog.Logger
}

// New loads the default AWS configuration for region and returns a reporter
// sending lifecycle events to queueUrl.
func New(ctx context.Context, queueUrl string, region string) (*SqsReporter, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewWithClient(sqs.NewFromConfig(cfg), queueUrl), nil
}

func NewWithClient(client SendMessageAPI, queueUrl string) *SqsReporter {
	return &SqsReporter{
		client:   client,
		queueUrl: queueUrl,
		log:      slog.Default(),
	}
}

func (s *SqsReporter) StartJob(job api.Job) {
	job.Run.Cmd = reporter.TrimToRect(job.Run.Cmd, api.MaxEventTextHeight, api.MaxEventTextWidth)
	s.send(api.NewStartJobEvent(job))
}

func (s *SqsReporter) FinishJob(job api.Job, err error) {
	msg := reporter.ErrorMessage(err, api.MaxEventTextHeight, api.MaxEventTextWidth)
	s.send(api.NewFinishJobEvent(job.ID, msg))
}

func (s *SqsReporter) send(msg interface{}) {
	b, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("failed to marshal message", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueUrl),
		MessageBody: aws.String(string(b)),
	})
	if err != nil {
		s.log.Error("failed to send message", "queue_url", s.queueUrl, "err", err)
	}
}
