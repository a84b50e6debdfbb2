package htmlfetch

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy drops every tag. Script and style contents are skipped by
// bluemonday itself.
var stripPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// bluemonday re-escapes text, so undo the entities it emits plus the common
// named ones.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#34;", `"`,
	"&#39;", "'",
)

// StripHTML reduces an HTML document to a single line of text: scripts and
// styles are removed, tags become spaces, a small set of entities is
// unescaped and whitespace runs collapse. Best effort, not a renderer.
func StripHTML(html string) string {
	text := entityReplacer.Replace(stripPolicy.Sanitize(html))
	return strings.Join(strings.Fields(text), " ")
}
