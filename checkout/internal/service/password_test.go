package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTempPassword(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		password, err := generateTempPassword()
		require.NoError(t, err)

		assert.Len(t, password, tempPasswordLength+len(tempPasswordSuffix))
		assert.True(t, strings.HasSuffix(password, tempPasswordSuffix))
		for _, r := range password[:tempPasswordLength] {
			assert.Contains(t, tempPasswordAlphabet, string(r))
		}

		seen[password] = struct{}{}
	}
	// 100 draws over a 55-char alphabet should never collide
	assert.Len(t, seen, 100)
}
