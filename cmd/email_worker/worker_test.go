package main

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, to, subject, text, html string, tags ...string) error {
	args := m.Called(to, subject, text, html, tags)
	return args.Error(0)
}

func newWorker(s Sender) *worker {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &worker{
		sender:   s,
		logger:   logger,
		defaults: map[string]string{"AppName": "Campus Market", "CompanyName": "Campus Market"},
		timeout:  time.Second,
	}
}

func TestWorker_RendersWelcomeTemplate(t *testing.T) {
	s := &mockSender{}
	nonEmpty := mock.MatchedBy(func(s string) bool { return s != "" })
	s.On("Send", "siti@example.com", nonEmpty, nonEmpty, nonEmpty, []string{"welcome"}).Return(nil).Once()

	err := newWorker(s).handle(context.Background(), []byte(`{"to":"siti@example.com","template":"welcome","data":{"Name":"Siti"}}`))

	require.NoError(t, err)
	s.AssertExpectations(t)
}

func TestWorker_RawMessage(t *testing.T) {
	s := &mockSender{}
	s.On("Send", "a@x.com", "Hello", "body", "", []string(nil)).Return(nil).Once()

	require.NoError(t, newWorker(s).handle(context.Background(), []byte(`{"to":"a@x.com","subject":"Hello","text":"body"}`)))
	s.AssertExpectations(t)
}

func TestWorker_PermanentFailures(t *testing.T) {
	bodies := map[string]string{
		"bad json":         `{`,
		"no recipient":     `{"subject":"x","text":"y"}`,
		"unknown template": `{"to":"a@x.com","template":"nope"}`,
		"no subject":       `{"to":"a@x.com","text":"y"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			s := &mockSender{}
			err := newWorker(s).handle(context.Background(), []byte(body))
			assert.ErrorIs(t, err, errPermanent)
			s.AssertNotCalled(t, "Send")
		})
	}
}

func TestWorker_SendFailureIsRetryable(t *testing.T) {
	s := &mockSender{}
	s.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("mailgun 503"))

	err := newWorker(s).handle(context.Background(), []byte(`{"to":"a@x.com","subject":"Hi","text":"t"}`))

	require.Error(t, err)
	assert.False(t, errors.Is(err, errPermanent))
}
