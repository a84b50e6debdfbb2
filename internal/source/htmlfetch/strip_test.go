package htmlfetch

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "drops script and style",
			in:   `<html><head><style>p{color:red}</style><script>var a = "<b>x</b>";</script></head><body><p>钙钛矿</p></body></html>`,
			want: "钙钛矿",
		},
		{
			name: "tags become spaces",
			in:   `<p>效率</p><p>突破</p>`,
			want: "效率 突破",
		},
		{
			name: "entities",
			in:   `<div>A&nbsp;&amp;&nbsp;B &lt;tag&gt; &quot;q&quot;</div>`,
			want: `A & B <tag> "q"`,
		},
		{
			name: "collapses whitespace",
			in:   "  <span>\n\t钙钛矿 \n\n 叠层</span>  ",
			want: "钙钛矿 叠层",
		},
		{
			name: "plain text untouched",
			in:   "no markup",
			want: "no markup",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}
