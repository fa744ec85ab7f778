package guard

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenGuardAcceptsAnything(t *testing.T) {
	for _, g := range []*Guard{Open(), New("", "X-MCP-Secret"), nil} {
		assert.False(t, g.Enabled())
		assert.NoError(t, g.Check(""))
		assert.NoError(t, g.Check("whatever"))
	}
}

func TestEnabledGuard(t *testing.T) {
	g := New("s3cret", "X-MCP-Secret")
	assert.True(t, g.Enabled())
	assert.NoError(t, g.Check("s3cret"))
	assert.ErrorIs(t, g.Check(""), ErrUnauthorized)
	assert.ErrorIs(t, g.Check("s3cre"), ErrUnauthorized)
	assert.ErrorIs(t, g.Check("s3cret "), ErrUnauthorized)
}

func TestCredentialFromRequest(t *testing.T) {
	g := New("s3cret", "X-MCP-Secret")

	r := httptest.NewRequest("GET", "/mcp/discover", nil)
	assert.Equal(t, "", g.Credential(r))

	r.Header.Set("Authorization", "Bearer token-1")
	assert.Equal(t, "token-1", g.Credential(r))

	r.Header.Set("X-MCP-Secret", "s3cret")
	assert.Equal(t, "s3cret", g.Credential(r), "configured header wins over Authorization")

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", g.Credential(r))
}
