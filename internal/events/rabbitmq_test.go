package events

import (
	"context"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitConfirm_Ack(t *testing.T) {
	confirms := make(chan amqp.Confirmation, 1)
	confirms <- amqp.Confirmation{DeliveryTag: 1, Ack: true}

	require.NoError(t, awaitConfirm(context.Background(), confirms, 1, time.Second))
}

func TestAwaitConfirm_SkipsLateConfirms(t *testing.T) {
	// tags 1 and 2 belong to publishes that gave up waiting
	confirms := make(chan amqp.Confirmation, 3)
	confirms <- amqp.Confirmation{DeliveryTag: 1, Ack: true}
	confirms <- amqp.Confirmation{DeliveryTag: 2, Ack: true}
	confirms <- amqp.Confirmation{DeliveryTag: 3, Ack: false}

	err := awaitConfirm(context.Background(), confirms, 3, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nacked tag 3")
	assert.Empty(t, confirms)
}

func TestAwaitConfirm_TimeoutThenNextPublish(t *testing.T) {
	confirms := make(chan amqp.Confirmation, 2)

	err := awaitConfirm(context.Background(), confirms, 1, 10*time.Millisecond)
	require.EqualError(t, err, "publish confirmation timeout")

	// the abandoned confirm shows up, followed by a nack for the next message
	confirms <- amqp.Confirmation{DeliveryTag: 1, Ack: true}
	confirms <- amqp.Confirmation{DeliveryTag: 2, Ack: false}
	err = awaitConfirm(context.Background(), confirms, 2, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nacked tag 2")
}

func TestAwaitConfirm_ContextAndClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := awaitConfirm(ctx, make(chan amqp.Confirmation), 1, time.Second)
	require.ErrorIs(t, err, context.Canceled)

	closed := make(chan amqp.Confirmation)
	close(closed)
	err = awaitConfirm(context.Background(), closed, 1, time.Second)
	require.EqualError(t, err, "channel closed before confirm")
}

func TestAwaitConfirm_UnexpectedTag(t *testing.T) {
	confirms := make(chan amqp.Confirmation, 1)
	confirms <- amqp.Confirmation{DeliveryTag: 5, Ack: true}

	err := awaitConfirm(context.Background(), confirms, 4, time.Second)
	require.Error(t, err)
}
