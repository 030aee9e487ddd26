package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"equals", "my token = 1234~abc", "1234~abc"},
		{"colon", "token: 1234~abc", "1234~abc"},
		{"space", "token 1234~abc", "1234~abc"},
		{"canvas token", "my canvas token is 1234~abc", "is"},
		{"access token colon", "access token: 1234~abc", "1234~abc"},
		{"accessToken", "accessToken=1234~abc", "1234~abc"},
		{"here is my accessToken", "here is my accessToken 7542~kDzezt6ZV7xnTcXHZWr4QWtG", "7542~kDzezt6ZV7xnTcXHZWr4QWtG"},
		{"bare structural", "use 7542~kDzezt6ZV7xnTcXHZWr4QWtGWE8AQ27LZQYxBAaMrAh please", "7542~kDzezt6ZV7xnTcXHZWr4QWtGWE8AQ27LZQYxBAaMrAh"},
		{"no token", "show me my courses", ""},
		{"short tilde string not structural", "see 12~abc for details", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractToken(tt.message))
		})
	}
}

func TestExtractTokenFirstPatternWins(t *testing.T) {
	// "token =" pattern is tried before the bare structural pattern.
	got := ExtractToken("token = abc and also 7542~kDzezt6ZV7xnTcXHZWr4QWtGWE8A")
	assert.Equal(t, "abc", got)
}
