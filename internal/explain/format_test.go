package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
		{
			name: "summary only",
			raw:  "  Reviews look   genuine. ",
			want: "<p>Reviews look genuine.</p>",
		},
		{
			name: "labeled clauses",
			raw:  "Short. Full analysis: Review: good; Feedback: ok; Image: clear",
			want: "<p>Short.</p><ul><li>Review: good</li><li>Feedback: ok</li><li>Image: clear</li></ul>",
		},
		{
			name: "semicolon inside prose stays in its clause",
			raw:  "Mixed. Full analysis: Review: short; repetitive wording;   Feedback:  returns high",
			want: "<p>Mixed.</p><ul><li>Review: short; repetitive wording</li><li>Feedback: returns high</li></ul>",
		},
		{
			name: "whitespace detail keeps an empty list",
			raw:  "Nothing to add. Full analysis:   ",
			want: "<p>Nothing to add.</p><ul></ul>",
		},
		{
			name: "marker at the very end has no list",
			raw:  "Nothing to add. Full analysis:",
			want: "<p>Nothing to add.</p>",
		},
		{
			name: "empty segments are dropped",
			raw:  "S. Full analysis: ; Review: a;  ;Image: b",
			want: "<p>S.</p><ul><li>Review: a;</li><li>Image: b</li></ul>",
		},
		{
			name: "second marker stays in the detail",
			raw:  "A. Full analysis: Review: x Full analysis: y",
			want: "<p>A.</p><ul><li>Review: x Full analysis: y</li></ul>",
		},
		{
			name: "markup is escaped",
			raw:  "<b>bold</b> & co",
			want: "<p>&lt;b&gt;bold&lt;/b&gt; &amp; co</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.raw))
		})
	}
}

func TestSplitClauses(t *testing.T) {
	got := SplitClauses(" Review: 3 of 5 flagged;Feedback: mostly size issues;\n Image: logo matches")

	assert.Equal(t, []string{
		" Review: 3 of 5 flagged",
		"Feedback: mostly size issues",
		"\n Image: logo matches",
	}, got)
}

func TestSplitClauses_NoLabels(t *testing.T) {
	assert.Equal(t, []string{"a; b; c"}, SplitClauses("a; b; c"))
}
