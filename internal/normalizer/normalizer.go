// Package normalizer turns raw CV or job text into a structured feature set.
// Extraction is deterministic and total: unknown text yields empty sets, never
// an error. Only empty input is rejected.
package normalizer

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var ErrEmptyInput = errors.New("normalizer: input text is empty")

// Features is the structured output of Normalize. Sets are case-folded,
// deduplicated and sorted for stable comparison.
type Features struct {
	Skills          []string
	ExperienceYears int
	Education       []string
	Certifications  []string
}

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*(?:year|yr)s?(?:\s*and\s*\d+\s*months?)?\s*experience`),
	regexp.MustCompile(`(?i)(\d+)\s*\+?\s*years?(?:\s*of)?\s*(?:experience|exp)`),
	regexp.MustCompile(`(?i)experience:\s*(\d+)\s*years?`),
}

// Normalize extracts skills, experience years, education and certifications
// from raw text. Experience is the maximum value found; feature sets are
// re-derived from scratch, never merged with prior state.
func Normalize(text string) (Features, error) {
	if strings.TrimSpace(text) == "" {
		return Features{}, ErrEmptyInput
	}

	lower := strings.ToLower(text)
	return Features{
		Skills:          matchVocabulary(lower, skillVocabulary),
		ExperienceYears: extractExperience(text),
		Education:       matchVocabulary(lower, educationVocabulary),
		Certifications:  matchVocabulary(lower, certificationVocabulary),
	}, nil
}

func matchVocabulary(lowerText string, vocab []string) []string {
	found := make(map[string]struct{})
	for _, term := range vocab {
		if strings.Contains(lowerText, term) {
			found[term] = struct{}{}
		}
	}

	out := make([]string, 0, len(found))
	for term := range found {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

func extractExperience(text string) int {
	max := 0
	for _, re := range experiencePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			years, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if years > max {
				max = years
			}
		}
	}
	return max
}
