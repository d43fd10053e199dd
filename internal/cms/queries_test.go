package cms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostQuery_Filter(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		want    string
		wantNot string
	}{
		{name: "no slug", slug: "", wantNot: "where"},
		{name: "slug", slug: "my-slug", want: `where: {slug: "my-slug"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := PostQuery("", tt.slug)
			assert.Contains(t, q, DefaultPostCollection)
			if tt.want != "" {
				assert.Contains(t, q, tt.want)
			}
			if tt.wantNot != "" {
				assert.NotContains(t, q, tt.wantNot)
			}
		})
	}
}

func TestQuote_EscapesSpecialCharacters(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
		{"line\nbreak", `"line\nbreak"`},
		{`<b>&`, `"<b>&"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, quote(tt.in))
		})
	}
}

func TestPageQuery_QuoteCannotBreakOut(t *testing.T) {
	q := PageQuery(`x"}) { secret } #`)
	assert.Contains(t, q, `where: {slug: "x\"}) { secret } #"}`)
	assert.Equal(t, 1, strings.Count(q, "pageCollection("))
}

func TestJSONQuery(t *testing.T) {
	assert.Contains(t, JSONQuery("faq"), `jsonCollection(where: {title: "faq"})`)
}
