package sentiment

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText flattens an HN comment body (a small HTML fragment with <p>,
// <a>, <i>, <pre><code> and character references) into whitespace-separated
// text. Links contribute their visible text only.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or an unparseable tail; keep whatever was recovered.
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "p", "br", "pre", "li", "div":
				b.WriteByte(' ')
			}
		}
	}
}
