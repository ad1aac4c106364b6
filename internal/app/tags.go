package app

import (
	"slices"
	"strings"
)

// NormalizeTags turns comma separated user input into a sorted list of unique tags.
// Whitespace runs inside a tag collapse to one space; empty tags are dropped.
//
//	NormalizeTags("sci-fi, sci-fi ,  Fantasy") // ["Fantasy", "sci-fi"]
func NormalizeTags(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, tag := range parts {
		tag = strings.Join(strings.Fields(tag), " ")
		if tag != "" {
			out = append(out, tag)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// NormalizeTagList applies NormalizeTags to tags that arrive as a list. Commas inside an
// element still separate tags.
func NormalizeTagList(tags []string) []string {
	return NormalizeTags(strings.Join(tags, ","))
}
