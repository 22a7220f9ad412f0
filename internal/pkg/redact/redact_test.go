package redact

// Тесты маскирования значений для логов (redact.go).

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "user@example.com", want: "us***@example.com"},
		{in: "ab@example.com", want: "***@example.com"},
		{in: "a@example.com", want: "***@example.com"},
		{in: "not-an-email", want: "***"},
		{in: "", want: "***"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Email(tt.in), "Email(%q)", tt.in)
	}
}

func TestSID(t *testing.T) {
	t.Parallel()

	require.Equal(t, "3f2a1b***", SID("3f2a1b9cd0e4"))
	require.Equal(t, "***", SID("short"))
	require.Equal(t, "***", SID(""))
}

func TestTokenAndPassword(t *testing.T) {
	t.Parallel()

	require.Equal(t, "[REDACTED_TOKEN]", Token())
	require.Equal(t, "[REDACTED_PASSWORD]", Password())
}
