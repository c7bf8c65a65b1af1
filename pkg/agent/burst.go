package agent

import "strings"

const (
	earlierPrefix    = " (said earlier: "
	earlierSeparator = " | "
)

// MergeBurst collapses utterances drained together into one user turn. The
// last non-blank item is the primary text; earlier ones follow in arrival
// order as a "said earlier" note.
func MergeBurst(items []string) string {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			kept = append(kept, it)
		}
	}
	switch len(kept) {
	case 0:
		return ""
	case 1:
		return kept[0]
	}

	primary := kept[len(kept)-1]
	return primary + earlierPrefix + strings.Join(kept[:len(kept)-1], earlierSeparator) + ")"
}
