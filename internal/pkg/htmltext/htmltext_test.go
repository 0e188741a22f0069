package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html/atom"
)

const feedback = `<h3>Score: 3/4</h3>
<h4>Delivery</h4>
<p>Clear <b>pace</b>.</p>
<h4>Language &amp; Vocabulary</h4>
<p>Good range.</p>
<ul><li>conducive</li><li>mitigate</li></ul>
<h4>Topic Development</h4>
<p>Needs examples.</p>`

func TestVocabularySection(t *testing.T) {
	section, ok := VocabularySection(feedback)
	assert.True(t, ok)
	assert.Equal(t,
		`<h4>Language &amp; Vocabulary</h4><p>Good range.</p><ul><li>conducive</li><li>mitigate</li></ul>`,
		section,
	)

	_, ok = VocabularySection("<p>no headings here</p>")
	assert.False(t, ok)
}

func TestSectionByHeadingIsCaseInsensitive(t *testing.T) {
	section, ok := SectionByHeading(feedback, atom.H4, "TOPIC")
	assert.True(t, ok)
	assert.Equal(t, `<h4>Topic Development</h4><p>Needs examples.</p>`, section)
}

func TestPlainText(t *testing.T) {
	text := PlainText(feedback)
	assert.Equal(t, `Score: 3/4

Delivery

Clear pace.

Language & Vocabulary

Good range.

- conducive

- mitigate

Topic Development

Needs examples.`, text)

	assert.Equal(t, "just text", PlainText("just text"))
}
