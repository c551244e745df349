package secretcode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	issued, err := Issue(15 * time.Minute)
	require.NoError(t, err)

	assert.Len(t, issued.Code, Length)
	for _, c := range issued.Code {
		assert.True(t, c >= '0' && c <= '9')
	}
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), issued.ExpiresAt, time.Minute)
}

func TestIssue_CodesDiffer(t *testing.T) {
	// Совпадение двух подряд выпущенных кодов возможно, но крайне маловероятно.
	seen := make(map[string]bool)
	for range 10 {
		issued, err := Issue(time.Minute)
		require.NoError(t, err)
		seen[issued.Code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestVerify(t *testing.T) {
	now := time.Now().UTC()
	code := "123456"
	future := now.Add(10 * time.Minute)
	past := now.Add(-time.Minute)

	tests := []struct {
		name     string
		stored   *string
		supplied string
		expiry   *time.Time
		want     Outcome
	}{
		{
			name:     "valid code",
			stored:   &code,
			supplied: "123456",
			expiry:   &future,
			want:     Valid,
		},
		{
			name:     "mismatched code",
			stored:   &code,
			supplied: "654321",
			expiry:   &future,
			want:     Mismatch,
		},
		{
			name:     "expired code",
			stored:   &code,
			supplied: "123456",
			expiry:   &past,
			want:     Expired,
		},
		{
			name:     "no code stored",
			stored:   nil,
			supplied: "123456",
			expiry:   &future,
			want:     Mismatch,
		},
		{
			name:     "no expiry stored",
			stored:   &code,
			supplied: "123456",
			expiry:   nil,
			want:     Mismatch,
		},
		{
			// Срок проверяется раньше значения: просроченный код
			// не раскрывает, совпал он или нет.
			name:     "expired and mismatched reports expired",
			stored:   &code,
			supplied: "000000",
			expiry:   &past,
			want:     Expired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Verify(tt.stored, tt.supplied, tt.expiry, now)
			assert.Equal(t, tt.want, got)
		})
	}
}
