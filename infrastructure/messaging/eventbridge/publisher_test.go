package eventbridge

import (
	"context"
	"testing"
	"time"

	"buildflow-backend/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	eventbridgesdk "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePutEvents struct {
	inputs []*eventbridgesdk.PutEventsInput
	output *eventbridgesdk.PutEventsOutput
	err    error
}

func (f *fakePutEvents) PutEvents(ctx context.Context, params *eventbridgesdk.PutEventsInput, optFns ...func(*eventbridgesdk.Options)) (*eventbridgesdk.PutEventsOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	if f.output != nil {
		return f.output, nil
	}
	entries := make([]types.PutEventsResultEntry, len(params.Entries))
	return &eventbridgesdk.PutEventsOutput{Entries: entries}, nil
}

// unmarshalableEvent cannot be encoded to JSON, so the publisher must
// skip it.
type unmarshalableEvent struct {
	events.BaseEvent
	Ch chan int `json:"ch"`
}

func newUnmarshalableEvent() unmarshalableEvent {
	return unmarshalableEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: "p-bad",
			EventType:   "project.bad",
			Timestamp:   time.Now(),
		},
		Ch: make(chan int),
	}
}

func TestPublish_SetsEntryFields(t *testing.T) {
	fake := &fakePutEvents{}
	pub := NewPublisher(fake, "buildflow-bus", zap.NewNop())

	err := pub.Publish(context.Background(), events.NewProjectSaved("p1", "u1", 2, 1))
	require.NoError(t, err)

	require.Len(t, fake.inputs, 1)
	require.Len(t, fake.inputs[0].Entries, 1)
	entry := fake.inputs[0].Entries[0]
	assert.Equal(t, "buildflow-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, events.SourceBackend, aws.ToString(entry.Source))
	assert.Equal(t, events.EventTypeProjectSaved, aws.ToString(entry.DetailType))
	assert.Contains(t, aws.ToString(entry.Detail), `"projectId":"p1"`)
	assert.Equal(t, []string{"arn:aws:buildflow::p1"}, entry.Resources)
}

func TestPublishBatch_SplitsAtTen(t *testing.T) {
	fake := &fakePutEvents{}
	pub := NewPublisher(fake, "buildflow-bus", zap.NewNop())

	batch := make([]events.DomainEvent, 0, 12)
	for i := 0; i < 12; i++ {
		batch = append(batch, events.NewProjectCleared("p1", "u1"))
	}

	require.NoError(t, pub.PublishBatch(context.Background(), batch))
	require.Len(t, fake.inputs, 2)
	assert.Len(t, fake.inputs[0].Entries, 10)
	assert.Len(t, fake.inputs[1].Entries, 2)
}

func TestPublishBatch_FailureAttributedToSentEvent(t *testing.T) {
	// The first event cannot be marshaled and never reaches EventBridge,
	// so the failed result entry at index 0 belongs to the second event.
	fake := &fakePutEvents{
		output: &eventbridgesdk.PutEventsOutput{
			FailedEntryCount: 1,
			Entries: []types.PutEventsResultEntry{
				{
					ErrorCode:    aws.String("ThrottlingException"),
					ErrorMessage: aws.String("rate exceeded"),
				},
			},
		},
	}
	core, logs := observer.New(zap.ErrorLevel)
	pub := NewPublisher(fake, "buildflow-bus", zap.New(core))

	err := pub.PublishBatch(context.Background(), []events.DomainEvent{
		newUnmarshalableEvent(),
		events.NewProjectDeleted("p2", "u1"),
	})
	require.Error(t, err)

	require.Len(t, fake.inputs, 1)
	require.Len(t, fake.inputs[0].Entries, 1, "unmarshalable event is skipped")

	logged := logs.FilterMessage("Failed to publish event").All()
	require.Len(t, logged, 1)
	assert.Equal(t, events.EventTypeProjectDeleted, logged[0].ContextMap()["eventType"])
}

func TestPublishBatch_Empty(t *testing.T) {
	fake := &fakePutEvents{}
	pub := NewPublisher(fake, "buildflow-bus", zap.NewNop())

	require.NoError(t, pub.PublishBatch(context.Background(), nil))
	assert.Empty(t, fake.inputs)
}
