package html

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	content := `<!DOCTYPE html>
<html>
<head><title>Titre</title><style>body { color: red; }</style></head>
<body>
<h1>Section</h1>
<p>Premier paragraphe.</p>
<p>Second &amp; dernier.</p>
<script>console.log("ignored");</script>
</body>
</html>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	got, err := New().Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Section\nPremier paragraphe.\nSecond & dernier.", got)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "bonjour", "bonjour"},
		{"tags removed", "<p>texte</p>", "texte"},
		{"script dropped", "<script>alert(1)</script>reste", "reste"},
		{"style dropped", "<style>p{}</style>reste", "reste"},
		{"comment dropped", "<!-- caché -->visible", "visible"},
		{"entities decoded", "un &lt;deux&gt; &amp; trois", "un <deux> & trois"},
		{"br becomes line break", "ligne un<br>ligne deux", "ligne un\nligne deux"},
		{"block elements become lines", "<div>un</div><div>deux</div>", "un\ndeux"},
		{"blank lines removed", "<p>un</p>\n\n\n<p>deux</p>", "un\ndeux"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripHTML(tt.in))
		})
	}
}
