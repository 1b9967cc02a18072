package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/yayois-studio/pkg/studio/report"
)

func TestReport_Render(t *testing.T) {
	r := &report.Report{
		Title: "Christmas kittens",
		Entries: []report.Entry{
			{
				Label:          "Pop Art",
				ImageUrl:       "file:///tmp/kittens/pop-art-1.png",
				OriginalPrompt: "Kittens, in the style of Pop Art",
				RevisedPrompt:  "Several kittens <playing> near a tree",
			},
		},
		Failures: []report.Failure{{Label: "Cyberpunk", Error: "content policy violation"}},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	html := buf.String()

	assert.Contains(t, html, `<img src="file:///tmp/kittens/pop-art-1.png"`)
	assert.Contains(t, html, "<td>Kittens, in the style of Pop Art</td>")
	assert.Contains(t, html, "Several kittens &lt;playing&gt; near a tree")
	assert.Contains(t, html, "<li>Cyberpunk: content policy violation</li>")
	assert.Equal(t, 2, strings.Count(html, "<tr>"))
}

func TestReport_RenderWithoutFailures(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&report.Report{}).Render(&buf))

	assert.Contains(t, buf.String(), "<title>Generated images</title>")
	assert.NotContains(t, buf.String(), "Failed")
}
