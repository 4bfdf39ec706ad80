package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := string(RenderMarkdown("**Bolinha** fugiu <script>alert(1)</script>\n\n![foto](https://example.com/a.jpg)"))

	assert.Contains(t, out, "<strong>Bolinha</strong>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `loading="lazy"`)
	assert.Contains(t, out, `referrerpolicy="no-referrer"`)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "visto perto da padaria", SanitizeText("  <b>visto</b> perto da padaria "))
}

func TestEnhanceHTMLContentEmpty(t *testing.T) {
	assert.Equal(t, "", string(EnhanceHTMLContent("")))
}

func TestTTLCacheExpires(t *testing.T) {
	c, err := NewTTLCache[int](2, time.Minute)
	require.NoError(t, err)

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCacheEvictsLeastRecent(t *testing.T) {
	c, err := NewTTLCache[string](2, time.Hour)
	require.NoError(t, err)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestConv(t *testing.T) {
	assert.Equal(t, 3, StringToInt(" 3 ", 1))
	assert.Equal(t, 1, StringToInt("x", 1))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.True(t, strings.HasSuffix(Truncate("São Paulo", 3), "..."))
}
