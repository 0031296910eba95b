package dashboard

import (
	"sort"
	"strings"
	"unicode"
)

// Pseudo categories that bypass dictionary lookup.
const (
	CATEGORY_ALL    = "all"
	CATEGORY_CUSTOM = "custom"
)

// ResolveCategory finds the dictionary key best matching the caller
// supplied category name. Matching rules are tried in order, first hit
// wins: exact (case-insensitive), normalized (lowercased, whitespace
// stripped), then substring containment either direction after the
// same normalization. Keys are scanned in sorted order so resolution
// is deterministic.
//
// "" / "all" / "custom" pass through unchanged without lookup. When no
// rule matches ok is false; every caller treats that as a fallback to
// "all" - uniform policy, not a per-endpoint choice.
func ResolveCategory(selected string, dict CategoryDictionary) (string, bool) {
	if selected == "" {
		return selected, true
	}
	lowered := strings.ToLower(selected)
	if lowered == CATEGORY_ALL || lowered == CATEGORY_CUSTOM {
		return selected, true
	}
	if len(dict) == 0 {
		return "", false
	}

	keys := make([]string, 0, len(dict))
	for key := range dict {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.EqualFold(key, selected) {
			return key, true
		}
	}

	normalized := normalizeCategoryName(selected)
	for _, key := range keys {
		if normalizeCategoryName(key) == normalized {
			return key, true
		}
	}

	for _, key := range keys {
		normalizedKey := normalizeCategoryName(key)
		if strings.Contains(normalizedKey, normalized) || strings.Contains(normalized, normalizedKey) {
			return key, true
		}
	}

	return "", false
}

func normalizeCategoryName(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
