package parser

import (
	"regexp"
	"strings"
)

var (
	titleRe           = regexp.MustCompile(`^#\s+(.+)`)
	ingredientsHeadRe = regexp.MustCompile(`(?i)^##\s+.*ingredients`)
	checkboxRe        = regexp.MustCompile(`^-\s*\[.\]\s*`)
	bulletRe          = regexp.MustCompile(`^-\s*`)
)

// Body holds the sections extracted from a recipe document.
type Body struct {
	Title       string
	Ingredients []string
}

// ExtractBody pulls the title and the ingredient lines out of a document.
// fallbackTitle is returned as the title when no heading line exists,
// conventionally the filename without its extension. Like ParseFrontmatter
// it degrades to defaults on malformed input and never fails.
func ExtractBody(content, fallbackTitle string) Body {
	lines := strings.Split(content, "\n")
	return Body{
		Title:       extractTitle(lines, fallbackTitle),
		Ingredients: extractIngredients(lines),
	}
}

// extractTitle returns the text of the first level-1 heading: a line
// starting with exactly one '#' followed by whitespace. Deeper headings
// never qualify.
func extractTitle(lines []string, fallback string) string {
	for _, line := range lines {
		if m := titleRe.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return fallback
}

// extractIngredients collects the lines of the first level-2 heading whose
// text contains "ingredients" (any case), up to the next "##" line or end
// of document. Each line loses its checkbox or bullet prefix and
// surrounding whitespace; blank lines are dropped, order is preserved.
func extractIngredients(lines []string) []string {
	start := -1
	for i, line := range lines {
		if ingredientsHeadRe.MatchString(line) {
			start = i + 1
			break
		}
	}

	ingredients := []string{}
	if start < 0 {
		return ingredients
	}
	for _, line := range lines[start:] {
		if strings.HasPrefix(line, "##") {
			break
		}
		s := strings.TrimSpace(line)
		s = checkboxRe.ReplaceAllString(s, "")
		s = bulletRe.ReplaceAllString(s, "")
		s = strings.TrimSpace(s)
		if s != "" {
			ingredients = append(ingredients, s)
		}
	}
	return ingredients
}
