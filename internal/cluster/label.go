package cluster

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// stopwords excluded from filename-word tallies: generic English function
// words plus filesystem-noise terms.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true,
	"of": true, "with": true, "by": true, "from": true, "as": true,
	"is": true, "was": true, "are": true, "were": true, "been": true,
	"be": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true, "could": true,
	"should": true, "may": true, "might": true, "must": true, "shall": true,
	"can": true, "need": true, "dare": true, "ought": true, "used": true,
	"index": true, "main": true, "test": true, "spec": true, "temp": true,
	"tmp": true, "copy": true, "new": true, "old": true,
}

// extensionCategories maps known extensions to human-readable labels.
var extensionCategories = map[string]string{
	"md":   "Docs",
	"rs":   "Rust",
	"ts":   "TypeScript",
	"tsx":  "TypeScript",
	"js":   "JavaScript",
	"jsx":  "JavaScript",
	"py":   "Python",
	"json": "Config",
	"yaml": "Config",
	"yml":  "Config",
	"css":  "Styles",
	"scss": "Styles",
	"html": "HTML",
	"sql":  "Database",
	"sh":   "Scripts",
	"bash": "Scripts",
	"txt":  "Text",
}

// synthesizeLabel builds a descriptive label from member paths: most
// frequent meaningful filename word, then parent directory, then extension
// category. Falls back to "Group (<n>)" when nothing qualifies.
func synthesizeLabel(paths []string) string {
	dirCounts := make(map[string]int)
	extCounts := make(map[string]int)
	wordCounts := make(map[string]int)

	for _, p := range paths {
		dir := strings.ToLower(filepath.Base(filepath.Dir(p)))
		if len(dir) > 1 && dir != "." && dir != string(filepath.Separator) {
			dirCounts[dir]++
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(p), "."))
		if ext != "" {
			extCounts[ext]++
		}

		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))
		for _, word := range splitAlphanumeric(stem) {
			if len(word) > 2 && !stopwords[word] {
				wordCounts[word]++
			}
		}
	}

	topWord, _ := topCandidate(wordCounts, func(w string, c int) bool {
		return len(w) > 3 && c > 1
	})
	topDir, _ := topCandidate(dirCounts, func(d string, c int) bool {
		return len(d) > 2
	})
	topExt, hasExt := topCandidate(extCounts, func(string, int) bool { return true })

	var parts []string
	if topWord != "" {
		parts = append(parts, capitalize(topWord))
	}
	if topDir != "" && (len(parts) == 0 || !strings.Contains(strings.ToLower(parts[0]), topDir)) {
		parts = append(parts, capitalize(topDir))
	}
	if hasExt {
		if category, ok := extensionCategories[topExt]; ok {
			parts = append(parts, category)
		} else {
			parts = append(parts, topExt)
		}
	}

	if len(parts) == 0 {
		return fmt.Sprintf("Group (%d)", len(paths))
	}
	return strings.Join(parts, " ")
}

// topCandidate returns the most frequent key passing the filter. Equal
// counts break to the lexicographically smallest key, keeping labels
// deterministic.
func topCandidate(counts map[string]int, keep func(string, int) bool) (string, bool) {
	best := ""
	bestCount := 0
	for key, count := range counts {
		if !keep(key, count) {
			continue
		}
		if count > bestCount || (count == bestCount && key < best) {
			best = key
			bestCount = count
		}
	}
	return best, best != ""
}

func splitAlphanumeric(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
