package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestEventPublisher_PublishLogin(t *testing.T) {
	ch := new(MockChannel)
	var published amqp.Publishing
	ch.On("Publish", "auth", "auth.login", false, false, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(4).(amqp.Publishing) }).
		Return(nil).Once()

	p := NewEventPublisher(ch, "auth", "auth.login")
	res := models.AuthSuccess("token", models.Principal{ID: 1, Role: models.RoleAdmin})
	err := p.PublishLogin(context.Background(), models.NewLoginEvent("admin@club.org", res, time.Time{}))
	require.NoError(t, err)
	ch.AssertExpectations(t)

	assert.Equal(t, "application/json", published.ContentType)
	assert.Equal(t, amqp.Persistent, published.DeliveryMode)

	var got models.LoginEvent
	require.NoError(t, json.Unmarshal(published.Body, &got))
	_, err = uuid.Parse(got.EventID)
	assert.NoError(t, err)
	assert.Equal(t, got.EventID, published.MessageId)
	assert.Equal(t, "admin@club.org", got.Identifier)
	assert.Equal(t, models.OutcomeSuccess, got.Outcome)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.False(t, got.OccurredAt.IsZero())
	assert.NotContains(t, string(published.Body), "token")
}

func TestEventPublisher_PublishLogin_Rejected(t *testing.T) {
	ch := new(MockChannel)
	var body []byte
	ch.On("Publish", "auth", "auth.login", false, false, mock.Anything).
		Run(func(args mock.Arguments) { body = args.Get(4).(amqp.Publishing).Body }).
		Return(nil).Once()

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ev := models.NewLoginEvent("ghost", models.AuthRejected(models.ReasonAccountNotFound), at)
	ev.EventID = "fixed-id"

	require.NoError(t, NewEventPublisher(ch, "auth", "auth.login").PublishLogin(context.Background(), ev))
	assert.JSONEq(t, `{
		"event_id": "fixed-id",
		"identifier": "ghost",
		"outcome": "rejected",
		"reason": "account_not_found",
		"occurred_at": "2025-03-01T12:00:00Z"
	}`, string(body))
}

func TestEventPublisher_PublishLogin_Errors(t *testing.T) {
	t.Run("channel error", func(t *testing.T) {
		ch := new(MockChannel)
		ch.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).
			Return(errors.New("channel closed")).Once()

		err := NewEventPublisher(ch, "auth", "auth.login").PublishLogin(context.Background(), models.LoginEvent{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
	})

	t.Run("canceled context", func(t *testing.T) {
		ch := new(MockChannel)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := NewEventPublisher(ch, "auth", "auth.login").PublishLogin(ctx, models.LoginEvent{})
		assert.ErrorIs(t, err, context.Canceled)
		ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPublishMessage_MarshalError(t *testing.T) {
	ch := new(MockChannel)
	badMsg := struct {
		Ch chan int `json:"ch"`
	}{
		Ch: make(chan int),
	}

	err := PublishMessage(ch, "", "queue", "id", badMsg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
	ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishLogin(context.Background(), models.LoginEvent{}))
}
