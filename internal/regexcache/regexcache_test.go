package regexcache_test

import (
	"testing"

	"github.com/cobaltwing/phishguard/internal/regexcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Compile(t *testing.T) {
	c := regexcache.New(&regexcache.Config{Size: 10})

	re, ok := c.Compile(`^bad-.*\.example$`)
	require.True(t, ok)
	require.NotNil(t, re)
	assert.True(t, re.MatchString("bad-login.example"))
	assert.Equal(t, 1, c.Len())

	// A second lookup for the same pattern must hit the cache and return an
	// equivalent matcher.
	re2, ok := c.Compile(`^bad-.*\.example$`)
	require.True(t, ok)
	assert.True(t, re2.MatchString("bad-login.example"))
	assert.Equal(t, 1, c.Len())
}

func TestCache_Compile_invalid(t *testing.T) {
	c := regexcache.New(&regexcache.Config{Size: 10})

	re, ok := c.Compile(`(unterminated`)
	assert.False(t, ok)
	assert.Nil(t, re)
	assert.Equal(t, 1, c.Len())

	// The failure is itself cached, so a second lookup must still report
	// ok == false without panicking.
	re, ok = c.Compile(`(unterminated`)
	assert.False(t, ok)
	assert.Nil(t, re)
}

func TestCache_Clear(t *testing.T) {
	c := regexcache.New(&regexcache.Config{Size: 10})

	_, ok := c.Compile(`abc`)
	require.True(t, ok)
	require.Equal(t, 1, c.Len())

	c.Clear()

	assert.Equal(t, 0, c.Len())
}
