package email

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	raw, err := BuildMessage("Habit Tracker", "bot@habits.test", "ann@example.com",
		"Reminder: Read", "Hi Ann,\n\nTime to <read>.")
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "ann@example.com", msg.Header.Get("To"))
	assert.Equal(t, "Reminder: Read", msg.Header.Get("Subject"))
	assert.Contains(t, msg.Header.Get("Message-ID"), "@habits.test>")

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	var bodies []string
	var types []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(part)
		require.NoError(t, err)
		types = append(types, part.Header.Get("Content-Type"))
		bodies = append(bodies, strings.ReplaceAll(string(content), "\r\n", "\n"))
	}

	require.Len(t, bodies, 2)
	assert.Equal(t, "text/plain; charset=UTF-8", types[0])
	assert.Equal(t, "Hi Ann,\n\nTime to <read>.", bodies[0])
	assert.Equal(t, "text/html; charset=UTF-8", types[1])
	assert.Contains(t, bodies[1], "Hi Ann,<br><br>Time to &lt;read&gt;.")
}

func TestSendRejectsEmptyRecipient(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: "2525", From: "bot@habits.test"})

	err := s.Send(context.Background(), "", "subject", "body")
	assert.Error(t, err)
}

func TestSendHonoursCancelledContext(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: "1", From: "bot@habits.test"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, "ann@example.com", "subject", "body")
	assert.Error(t, err)
}

func TestBuildMessageRejectsHeaderLineBreaks(t *testing.T) {
	tests := []struct {
		name, to, subject string
	}{
		{"subject with CRLF", "ann@example.com", "Reminder: Read\r\nBcc: victim@evil.test"},
		{"subject with LF", "ann@example.com", "Reminder\nBcc: victim@evil.test"},
		{"recipient with CRLF", "ann@example.com\r\nBcc: victim@evil.test", "Reminder: Read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := BuildMessage("Habit Tracker", "bot@habits.test", tt.to, tt.subject, "body")
			assert.ErrorIs(t, err, ErrInvalidHeader)
			assert.NotContains(t, string(raw), "Bcc:")
		})
	}
}

func TestBuildMessageEncodesNonASCIISubject(t *testing.T) {
	raw, err := BuildMessage("Трекер", "bot@habits.test", "ann@example.com", "Reminder: Читать", "body")
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	encoded := msg.Header.Get("Subject")
	assert.True(t, strings.HasPrefix(encoded, "=?utf-8?q?"), encoded)
	for _, b := range []byte(encoded) {
		assert.Less(t, b, byte(0x80), "subject header must be 7-bit")
	}

	subject, err := new(mime.WordDecoder).DecodeHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, "Reminder: Читать", subject)

	from, err := msg.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "Трекер", from[0].Name)
}

func TestSendRejectsInjectedSubject(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: "2525", From: "bot@habits.test"})

	err := s.Send(context.Background(), "ann@example.com", "Hi\r\nBcc: victim@evil.test", "body")
	assert.ErrorIs(t, err, ErrInvalidHeader)
}
