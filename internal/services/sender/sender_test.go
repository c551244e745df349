package services

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sanitation-identity/internal/lib/smtp"
	"github.com/magabrotheeeer/sanitation-identity/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	return m.Called().Error(0)
}

func (m *MockSMTPClient) Quit() error {
	return m.Called().Error(0)
}

type captureWriter struct {
	buf strings.Builder
}

func (w *captureWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *captureWriter) Close() error { return nil }

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newSenderWithMocks(t *testing.T) (*SenderService, *MockTransport, *MockSMTPClient, *captureWriter) {
	t.Helper()
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	writer := &captureWriter{}

	transport.On("GetSMTPUser").Return("mailer@example.com")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "mailer@example.com").Return(nil).Once()
	client.On("Rcpt", "user@example.com").Return(nil).Once()
	client.On("Data").Return(writer, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	svc := NewSenderService(newNoopLogger(), transport, 15*time.Minute, 15*time.Minute)
	return svc, transport, client, writer
}

func TestSendVerificationCode(t *testing.T) {
	svc, transport, client, writer := newSenderWithMocks(t)

	body, err := json.Marshal(models.EmailJob{
		Email:   "user@example.com",
		Code:    "123456",
		Purpose: "verification",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendVerificationCode(body))

	sent := writer.buf.String()
	assert.Contains(t, sent, "To: user@example.com")
	assert.Contains(t, sent, "123456")
	assert.Contains(t, sent, "15")

	transport.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestSendResetCode(t *testing.T) {
	svc, transport, client, writer := newSenderWithMocks(t)

	body, err := json.Marshal(models.EmailJob{
		Email:   "user@example.com",
		Code:    "654321",
		Purpose: "reset",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendResetCode(body))

	sent := writer.buf.String()
	assert.Contains(t, sent, "654321")

	transport.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestSendVerificationCode_BadPayload(t *testing.T) {
	transport := new(MockTransport)
	svc := NewSenderService(newNoopLogger(), transport, 15*time.Minute, 15*time.Minute)

	err := svc.SendVerificationCode([]byte("not a json"))
	assert.Error(t, err)
	transport.AssertNotCalled(t, "Connect")
}

func TestSendVerificationCode_ConnectError(t *testing.T) {
	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("mailer@example.com")
	transport.On("Connect").Return(nil, errors.New("dial failed")).Once()
	svc := NewSenderService(newNoopLogger(), transport, 15*time.Minute, 15*time.Minute)

	body, err := json.Marshal(models.EmailJob{Email: "user@example.com", Code: "123456"})
	require.NoError(t, err)

	assert.Error(t, svc.SendVerificationCode(body))
}
