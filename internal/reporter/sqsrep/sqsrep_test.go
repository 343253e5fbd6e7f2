package sqsrep_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/dcos/checkjob/api"
	"github.com/dcos/checkjob/internal/reporter/sqsrep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSqs struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSqs) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

const queueUrl = "https://sqs.eu-central-1.amazonaws.com/000000000000/check_results"

func TestSqsReporter_Events(t *testing.T) {
	client := &fakeSqs{}
	r := sqsrep.NewWithClient(client, queueUrl)

	job := api.Job{ID: "test-dcos-checks-abc", Run: api.Run{Cpus: 0.1, Mem: 128, Cmd: "true"}}
	r.StartJob(job)
	r.FinishJob(job, nil)

	require.Len(t, client.inputs, 2)
	for _, in := range client.inputs {
		assert.Equal(t, queueUrl, aws.ToString(in.QueueUrl))
	}

	var start api.StartJobEvent
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.inputs[0].MessageBody)), &start))
	assert.Equal(t, api.StartJobMsg, start.MsgType)
	assert.Equal(t, "true", start.Cmd)

	var finish api.FinishJobEvent
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.inputs[1].MessageBody)), &finish))
	assert.True(t, finish.Passed)
	assert.Equal(t, "test-dcos-checks-abc", finish.JobID)
}

func TestSqsReporter_SendErrorIsSwallowed(t *testing.T) {
	client := &fakeSqs{err: errors.New("AccessDenied")}
	r := sqsrep.NewWithClient(client, queueUrl)

	assert.NotPanics(t, func() {
		r.FinishJob(api.Job{ID: "x"}, errors.New("failed"))
	})
	assert.Len(t, client.inputs, 1)
}
