package id

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		sid, err := NewSessionID()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(sid, PrefixSession+"_"), sid)
		assert.True(t, IsSessionID(sid), sid)
		assert.False(t, seen[sid], "duplicate session id %s", sid)
		seen[sid] = true
	}
}

func TestIsSessionID(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"ses_abcdefABCDEF", true},
		{"ses_short", false},
		{"usr_abcdefABCDEF", false},
		{"ses_abcdef-BCDEF", false},
		{"", false},
		{"sesabcdefABCDEF", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSessionID(tt.input))
		})
	}
}

func TestNewReceiptToken(t *testing.T) {
	now := time.UnixMilli(1718000000123)

	a, err := NewReceiptToken(now)
	require.NoError(t, err)
	b, err := NewReceiptToken(now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "receipt_1718000000123_"), a)
	assert.NotEqual(t, a, b)
}

// FuzzParsePrefixedID checks that parsing splits on the first underscore only.
func FuzzParsePrefixedID(f *testing.F) {
	for _, seed := range []string{
		"ses_xK9mP2vL3nQa",
		"receipt_1718000000123_abc",
		"",
		"nounderscore",
		"_leading",
		"trailing_",
		"中文_测试",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			return
		}

		prefix, shortID, err := ParsePrefixedID(input)
		if !strings.Contains(input, "_") {
			if err == nil {
				t.Errorf("ParsePrefixedID(%q) should fail without underscore", input)
			}
			return
		}
		if err != nil {
			t.Errorf("ParsePrefixedID(%q) returned unexpected error: %v", input, err)
			return
		}
		if prefix+"_"+shortID != input {
			t.Errorf("ParsePrefixedID(%q) = (%q, %q) does not reassemble", input, prefix, shortID)
		}
	})
}

func FuzzGenerate(f *testing.F) {
	for _, l := range []int{-1, 0, 1, 6, 12, 64} {
		f.Add(l)
	}

	f.Fuzz(func(t *testing.T, length int) {
		if length > 4096 {
			return
		}
		result, err := Generate(length)
		if err != nil {
			t.Fatalf("Generate(%d) returned error: %v", length, err)
		}

		want := length
		if want <= 0 {
			want = DefaultLength
		}
		if len(result) != want {
			t.Errorf("Generate(%d) length = %d, want %d", length, len(result), want)
		}
		for _, c := range result {
			if !strings.ContainsRune(alphabet, c) {
				t.Errorf("Generate(%d) returned invalid character %q", length, c)
			}
		}
	})
}
