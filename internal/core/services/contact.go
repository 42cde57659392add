package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// UK numbers after stripping everything but digits and '+'.
	phonePattern = regexp.MustCompile(`(?:\+?44|0)\d{9,10}`)

	explicitNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)my name is ([a-z]{2,21}(?: [a-z]{2,21}){0,2})`),
		regexp.MustCompile(`(?i)\bI am ([a-z]{2,21}(?: [a-z]{2,21})?)`),
		regexp.MustCompile(`(?i)\bI'm ([a-z]{2,21}(?: [a-z]{2,21})?)`),
		regexp.MustCompile(`(?i)\bcall me ([a-z]{2,21}(?: [a-z]{2,21})?)`),
	}

	fullNamePattern = regexp.MustCompile(`\b([A-Z][a-z]{1,15} [A-Z][a-z]{1,15})\b`)

	phoneNoise = regexp.MustCompile(`[^\d+]`)
)

// commonWords are never accepted as part of a name.
var commonWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`the and for are but not you all can her was one our had by hot
		some what there we out other were when up use your how said each which their time if
		will way about many then them write would like so these long make thing see him two has
		look more day could go come did number sound most people my over know water than call
		first who may down side been now find any new work part take get place made live where
		after back little only round man year came show every good me give under very just name
		should please want help need this that here from they much right think also around another`) {
		commonWords[w] = true
	}
}

// ExtractContactInfo pulls an email address, a UK phone number, and a name
// from a chat message. Fields that are not found are left blank.
// Explicit introductions ("my name is", "I'm", "call me") win over a bare
// capitalised first and last name.
func ExtractContactInfo(message string) domain.ContactInfo {
	var info domain.ContactInfo

	if email := emailPattern.FindString(message); email != "" {
		info.Email = email
	}
	if phone := phonePattern.FindString(phoneNoise.ReplaceAllString(message, "")); phone != "" {
		info.Phone = phone
	}
	info.Name = extractName(message)
	return info
}

func extractName(message string) string {
	for i, p := range explicitNamePatterns {
		m := p.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if i == 0 {
			// Only a full introduction is trusted enough to trim.
			name = leadingName(name)
		}
		if plausibleName(name, 1, 3, 2, 20) {
			return name
		}
	}

	if m := fullNamePattern.FindStringSubmatch(message); m != nil {
		if plausibleName(m[1], 2, 2, 2, 15) {
			return m[1]
		}
	}
	return ""
}

// leadingName keeps the words before the first common word, so
// "Sarah and I" yields "Sarah".
func leadingName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if commonWords[strings.ToLower(w)] {
			words = words[:i]
			break
		}
	}
	return strings.Join(words, " ")
}

// plausibleName checks the word count and word lengths, and rejects
// everyday words mistaken for names.
func plausibleName(name string, minWords, maxWords, minLen, maxLen int) bool {
	words := strings.Fields(name)
	if len(words) < minWords || len(words) > maxWords {
		return false
	}
	for _, w := range words {
		if len(w) < minLen || len(w) > maxLen || commonWords[strings.ToLower(w)] {
			return false
		}
	}
	return true
}
