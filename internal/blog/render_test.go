package blog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderStripsActiveContent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		absent  []string
		present []string
	}{
		{
			name:    "script tag",
			input:   `<p>Hello</p><script>alert(1)</script>`,
			absent:  []string{"<script", "alert(1)"},
			present: []string{"<p>Hello</p>"},
		},
		{
			name:    "event handler",
			input:   `<img src="https://cdn.example/a.png" onerror="steal()">`,
			absent:  []string{"onerror", "steal"},
			present: []string{`src="https://cdn.example/a.png"`},
		},
		{
			name:    "javascript link",
			input:   `<a href="javascript:steal()">click</a>`,
			absent:  []string{"javascript:"},
			present: []string{"click"},
		},
		{
			name:    "safe link gets rel",
			input:   `<a href="https://zymo.app">Zymo</a>`,
			present: []string{`href="https://zymo.app"`, "nofollow"},
		},
		{
			name:    "iframe",
			input:   `<iframe src="https://evil.example"></iframe><b>bold</b>`,
			absent:  []string{"iframe"},
			present: []string{"<b>bold</b>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(Render(tt.input))
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
			for _, s := range tt.present {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	in := `<h2>Trip</h2><p>Rent a <em>car</em> & go<br>now`
	first := Render(in)
	assert.Equal(t, first, Render(in))
	assert.Equal(t, first, Render(string(first)))
}

func TestRenderClosesUnbalancedMarkup(t *testing.T) {
	out := string(Render(`<p><strong>open`))
	assert.Equal(t, "<p><strong>open</strong></p>", out)
}

func TestText(t *testing.T) {
	assert.Equal(t, "Hello world again", Text("<p>Hello <b>world</b></p>\n<script>x()</script><p>again</p>"))
}

func TestExcerpt(t *testing.T) {
	long := "<p>" + strings.Repeat("a", 200) + "</p>"
	assert.Equal(t, strings.Repeat("a", 150)+"...", Excerpt(long, 150))
	assert.Equal(t, "short...", Excerpt("<p>short</p>", 150))
}
