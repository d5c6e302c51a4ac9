// header.go
package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

type HeaderAnalysis struct {
	Headers        []string // cleaned, deduplicated column names
	FirstRowIsData bool     // the first row looks like values, not names
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s\d{2}:\d{2}:\d{2}$`),
}

// AnalyzeHeaders inspects the first CSV row. Column names are kept as written
// (trimmed, BOM removed) because the field rules match them verbatim.
func AnalyzeHeaders(firstRow []string) *HeaderAnalysis {
	if len(firstRow) == 0 {
		return nil
	}

	result := &HeaderAnalysis{Headers: make([]string, len(firstRow))}

	headerLikeCount := 0
	for _, field := range firstRow {
		if isLikelyHeader(field) {
			headerLikeCount++
		}
	}
	result.FirstRowIsData = float64(headerLikeCount)/float64(len(firstRow)) < 0.5

	for i, header := range firstRow {
		result.Headers[i] = cleanHeaderName(header, i)
	}
	result.Headers = ValidateHeaders(result.Headers)
	return result
}

// isLikelyHeader reports whether text reads like a column name.
func isLikelyHeader(text string) bool {
	text = strings.TrimSpace(strings.TrimPrefix(text, "\ufeff"))
	if text == "" {
		return false
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return false
	}
	for _, re := range datePatterns {
		if re.MatchString(text) {
			return false
		}
	}

	letters, others := 0, 0
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsSpace(r):
		default:
			others++
		}
	}
	total := letters + others
	return letters > 0 && float64(letters)/float64(total) >= 0.3
}

func generateColumnName(index int) string {
	return fmt.Sprintf("column_%d", index+1)
}

func cleanHeaderName(header string, index int) string {
	header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	if header == "" {
		return generateColumnName(index)
	}
	return header
}

// ValidateHeaders suffixes repeated names with _1, _2, ...
func ValidateHeaders(headers []string) []string {
	seen := make(map[string]bool, len(headers))
	result := make([]string, len(headers))

	for i, header := range headers {
		name := header
		for counter := 1; seen[name]; counter++ {
			name = fmt.Sprintf("%s_%d", header, counter)
		}
		seen[name] = true
		result[i] = name
	}
	return result
}
