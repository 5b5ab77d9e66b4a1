package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type messagePublisherStub struct {
	subject string
	data    []byte
	err     error
}

func (m *messagePublisherStub) Publish(subject string, data []byte) error {
	m.subject = subject
	m.data = data
	return m.err
}

func TestContactEventPublisherPublishesCreated(t *testing.T) {
	conn := &messagePublisherStub{}
	publisher := NewContactEventPublisher(conn, "accuro", "accuro-api", testLogger())
	publisher.(*natsContactEventPublisher).now = func() time.Time {
		return time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	}

	require.NoError(t, publisher.PublishCreated(context.Background(), storedContact()))
	require.Equal(t, "accuro.contact.created", conn.subject)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(conn.data, &payload))
	require.Equal(t, "contact.created", payload["type"])
	require.Equal(t, "accuro-api", payload["source"])
	require.Equal(t, "2025-03-14T00:00:00Z", payload["sentAt"])

	contact := payload["contact"].(map[string]interface{})
	require.Equal(t, storedContact().ID, contact["_id"])
	require.Equal(t, "Jane", contact["firstName"])
}

func TestContactEventPublisherReportsFailure(t *testing.T) {
	conn := &messagePublisherStub{err: errors.New("nats: connection closed")}
	publisher := NewContactEventPublisher(conn, "", "accuro-api", testLogger())

	err := publisher.PublishCreated(context.Background(), storedContact())
	require.Error(t, err)
	require.Equal(t, "contact.created", conn.subject)
}

func TestContactEventPublisherWithoutConnection(t *testing.T) {
	publisher := NewContactEventPublisher(nil, "accuro", "accuro-api", testLogger())
	require.NoError(t, publisher.PublishCreated(context.Background(), storedContact()))
}
