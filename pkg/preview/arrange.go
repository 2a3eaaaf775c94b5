package preview

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-fieldbuilder/pkg/model"
)

// Arrange returns the choices in display order for mode. The input slice is
// never modified. Alphabetical ordering ignores case and breaks ties on the
// raw text; length ordering counts runes and keeps insertion order for ties.
func Arrange(choices []model.Choice, mode model.OrderMode) []model.Choice {
	out := append([]model.Choice(nil), choices...)
	switch mode {
	case model.OrderAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := strings.ToLower(out[i].Text), strings.ToLower(out[j].Text)
			if a != b {
				return a < b
			}
			return out[i].Text < out[j].Text
		})
	case model.OrderLength:
		sort.SliceStable(out, func(i, j int) bool {
			return utf8.RuneCountInString(out[i].Text) < utf8.RuneCountInString(out[j].Text)
		})
	}
	return out
}
