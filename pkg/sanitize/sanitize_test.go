package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := map[string]string{
		"":                                   "",
		"  Plain  ":                          "Plain",
		"<b>Bold</b> choice":                 "Bold choice",
		"<script>alert(1)</script>Safe":      "Safe",
		"Fish & Chips":                       "Fish & Chips",
		`<a href="javascript:x()">link</a>`: "link",
	}
	for in, want := range cases {
		if got := Text(in); got != want {
			t.Fatalf("Text(%q) = %q, want %q", in, got, want)
		}
	}
}
