package solve

import (
	"strings"
	"unicode"
)

// DefaultTopic is assigned when no subject keyword matches.
const DefaultTopic = "General"

// defaultTags are assigned when the answer mentions no tags at all.
var defaultTags = []string{"general", "learning"}

const maxParsedTags = 10

// topicKeywords maps keyword families to a canonical topic. First match
// wins, scanning the answer top to bottom.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"Mathematics", []string{"math", "algebra", "geometry", "calculus", "arithmetic", "equation"}},
	{"Science", []string{"science", "physics", "chemistry", "biology"}},
	{"History", []string{"history", "historical"}},
	{"English", []string{"english", "grammar", "literature", "essay"}},
}

// parseAnswer scans the provider's free-text answer for subject,
// difficulty and tag hints. The prompt asks the model to finish with
// Subject/Difficulty/Tags lines, but the scan tolerates arbitrary
// prose: any line can match a subject keyword, an explicit easy/hard
// token, or a "tag" mention whose trailing tokens become tags.
func parseAnswer(answer string) (topic string, difficulty Difficulty, tags []string) {
	topic = DefaultTopic
	difficulty = DifficultyMedium
	tags = []string{}

	topicFound := false
	difficultyFound := false
	for _, line := range strings.Split(answer, "\n") {
		lower := strings.ToLower(line)

		if !topicFound {
		topicScan:
			for _, family := range topicKeywords {
				for _, kw := range family.keywords {
					if strings.Contains(lower, kw) {
						topic = family.topic
						topicFound = true
						break topicScan
					}
				}
			}
		}

		if !difficultyFound {
			if containsToken(lower, "easy") {
				difficulty = DifficultyEasy
				difficultyFound = true
			} else if containsToken(lower, "hard") {
				difficulty = DifficultyHard
				difficultyFound = true
			}
		}

		if strings.Contains(lower, "tag") {
			tags = append(tags, harvestTags(lower)...)
		}
	}

	if len(tags) == 0 {
		tags = append(tags, defaultTags...)
	}
	tags = dedupStrings(tags)
	if len(tags) > maxParsedTags {
		tags = tags[:maxParsedTags]
	}
	return topic, difficulty, tags
}

// containsToken reports whether the line contains token as a whole
// word. "hardly" must not register as "hard".
func containsToken(line, token string) bool {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, field := range fields {
		if field == token {
			return true
		}
	}
	return false
}

// harvestTags pulls comma separated tokens off a line that mentions
// tags, e.g. "Tags: algebra, fractions" yields algebra and fractions.
// Everything after the last colon is taken, or the whole line when
// there is none.
func harvestTags(lower string) []string {
	rest := lower
	if i := strings.LastIndex(lower, ":"); i >= 0 {
		rest = lower[i+1:]
	}

	var tags []string
	for _, part := range strings.Split(rest, ",") {
		tag := strings.Trim(strings.TrimSpace(part), ".;")
		if tag == "" || tag == "tag" || tag == "tags" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

func dedupStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
