package mail

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("Vidora", "noreply@vidora.test", "ada@example.com", "Password Reset Code", "Your password reset code is: 123456")

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found)

	assert.Contains(t, headers, "From: Vidora <noreply@vidora.test>\r\n")
	assert.Contains(t, headers, "To: ada@example.com\r\n")
	assert.Contains(t, headers, "Subject: Password Reset Code\r\n")
	assert.Contains(t, headers, "Content-Type: text/plain; charset=UTF-8")
	assert.Equal(t, "Your password reset code is: 123456", body)
}

func TestSMTPMailer_RejectsHeaderInjection(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "127.0.0.1", Port: 1, From: "noreply@vidora.test"})

	err := m.Send(context.Background(), "ada@example.com\r\nBcc: eve@example.com", "hi", "body")
	assert.ErrorIs(t, err, ErrInvalidHeader)

	err = m.Send(context.Background(), "ada@example.com", "hi\r\nBcc: eve@example.com", "body")
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestSMTPMailer_ConnectionRefused(t *testing.T) {
	// Reserve a port then close it so nothing is listening
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	m := NewSMTPMailer(Config{Host: "127.0.0.1", Port: port, From: "noreply@vidora.test"})
	err = m.Send(context.Background(), "ada@example.com", "hi", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to SMTP server")
}

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewTextHandler(&buf, nil)))

	err := m.Send(context.Background(), "ada@example.com", "Password Reset Code", "Your password reset code is: 654321")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "654321")
}
