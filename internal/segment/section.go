// Package segment splits raw document text into labeled sections and
// delimiter-separated tables. Both outputs are informational: the matcher
// always scans the full text, and section likelihood only annotates where
// operational metrics are expected.
package segment

import (
	"regexp"
	"strings"

	"github.com/finsight/kpiscan/internal/model"
)

// kpiVocab is the fixed vocabulary used to score a section's likelihood of
// containing operational metrics.
var kpiVocab = []string{
	"subscribers",
	"active users",
	"metrics",
	"highlights",
	"key performance",
	"stores",
	"employees",
	"revenue per user",
	"arpu",
	"gaming revenue",
	"members",
	"operational",
}

// likelihoodBoost scales keyword density so a handful of vocabulary hits
// saturates the [0,1] range.
const likelihoodBoost = 2.0

// Header heuristics:
//   - all-uppercase line of length >= 3 ("THIRD QUARTER HIGHLIGHTS")
//   - numbered-list prefix followed by a capitalized word ("3. Operating Metrics")
//   - consecutive Title Case words ("Business Update")
var (
	numberedHeader  = regexp.MustCompile(`^\d+[.)]\s+[A-Z]`)
	titleCaseHeader = regexp.MustCompile(`^(?:[A-Z][a-z]+\s+)+[A-Z][a-z]+$`)
)

// SplitSections segments raw text into labeled sections using header
// heuristics. Empty input yields no sections.
func SplitSections(text string) []model.Section {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var sections []model.Section
	var title string
	var content strings.Builder

	flush := func() {
		body := strings.TrimSpace(content.String())
		if body != "" {
			sections = append(sections, model.Section{
				Title:         title,
				Content:       body,
				KPILikelihood: kpiLikelihood(title, body),
			})
		}
		content.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if isHeader(trimmed) {
			flush()
			title = trimmed
			continue
		}
		content.WriteString(line)
		content.WriteString("\n")
	}
	flush()

	return sections
}

// isHeader reports whether a line looks like a section header.
func isHeader(line string) bool {
	if line == "" {
		return false
	}
	if len(line) >= 3 && isAllUpper(line) {
		return true
	}
	if numberedHeader.MatchString(line) {
		return true
	}
	return titleCaseHeader.MatchString(line)
}

// isAllUpper reports whether a line contains at least one letter and no
// lowercase letters.
func isAllUpper(line string) bool {
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// kpiLikelihood scores how likely a section is to contain operational
// metrics: vocabulary hits over vocabulary size, boosted and capped at 1.0.
func kpiLikelihood(title, content string) float64 {
	haystack := strings.ToLower(title + " " + content)
	hits := 0
	for _, term := range kpiVocab {
		if strings.Contains(haystack, term) {
			hits++
		}
	}
	score := likelihoodBoost * float64(hits) / float64(len(kpiVocab))
	if score > 1.0 {
		score = 1.0
	}
	return score
}
