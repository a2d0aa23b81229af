package domain

import (
	"regexp"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// ExtractKeys finds every reference to an issue of one of the given projects in text.
// A reference is a project key followed by a hyphen or a single space and a number,
// e.g. "ABC-12" or "ABC 12". The result is deduplicated and sorted naturally, so
// "ABC-2" comes before "ABC-10". It is never nil.
func ExtractKeys(projectKeys []string, text string) []string {
	pattern := keyPattern(projectKeys)
	if pattern == nil {
		return []string{}
	}

	matches := pattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		keys = append(keys, m)
	}

	sort.Slice(keys, func(i, j int) bool {
		return natural.Less(keys[i], keys[j])
	})
	return keys
}

// keyPattern builds the alternation for all non-empty project keys, or nil if there are none.
func keyPattern(projectKeys []string) *regexp.Regexp {
	quoted := make([]string, 0, len(projectKeys))
	for _, key := range projectKeys {
		if key == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(key))
	}
	if len(quoted) == 0 {
		return nil
	}
	// Stable pattern text regardless of the order the tracker listed its projects in.
	sort.Strings(quoted)
	return regexp.MustCompile(`(?:` + strings.Join(quoted, "|") + `)[- ][0-9]+`)
}
