package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeSES struct {
	last *ses.SendEmailInput
	err  error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := &sesMailer{client: client, source: formatSource("Event Booking", "no-reply@example.com"), logger: testLogger}

	require.NoError(t, m.Send(context.Background(), "ann@example.com", "Hello", "<p>hi</p>", ""))
	require.NotNil(t, client.last)
	assert.Equal(t, "Event Booking <no-reply@example.com>", aws.ToString(client.last.Source))
	assert.Equal(t, []string{"ann@example.com"}, client.last.Destination.ToAddresses)
	assert.Equal(t, "<p>hi</p>", aws.ToString(client.last.Message.Body.Html.Data))
	assert.Nil(t, client.last.Message.Body.Text)
}

func TestSESMailer_SendError(t *testing.T) {
	m := &sesMailer{client: &fakeSES{err: errors.New("throttled")}, source: "a@example.com", logger: testLogger}
	err := m.Send(context.Background(), "ann@example.com", "Hello", "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestNewMailer_Providers(t *testing.T) {
	assert.IsType(t, &sesMailer{}, NewMailer(MailerConfig{Provider: "ses", SES: SESConfig{Region: "us-east-1"}}, testLogger))
	assert.IsType(t, &noopMailer{}, NewMailer(MailerConfig{Provider: "noop"}, testLogger))
	assert.IsType(t, &noopMailer{}, NewMailer(MailerConfig{Provider: "smtp"}, testLogger))
	assert.NoError(t, NewMailer(MailerConfig{}, testLogger).Send(context.Background(), "a@example.com", "s", "", ""))
}
