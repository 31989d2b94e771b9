package analysis

import (
	"regexp"
	"strings"
)

// Section names of the parsed map. All five keys are always present;
// unmatched sections hold empty strings.
const (
	SectionSummary     = "summary"
	SectionFindings    = "findings"
	SectionMethodology = "methodology"
	SectionConclusions = "conclusions"
	SectionCitations   = "citations"
)

// sectionTable maps section names to the accepted heading synonyms.
// Kept as an explicit table so the matching contract is testable on its
// own, away from any live model call.
var sectionTable = []struct {
	name    string
	heading *regexp.Regexp
}{
	{SectionSummary, regexp.MustCompile(`(?i)^summary$`)},
	{SectionFindings, regexp.MustCompile(`(?i)^(?:key\s+)?findings$`)},
	{SectionMethodology, regexp.MustCompile(`(?i)^methodology$`)},
	{SectionConclusions, regexp.MustCompile(`(?i)^(?:main\s+)?conclusions$`)},
	{SectionCitations, regexp.MustCompile(`(?i)^(?:important\s+)?citations(?:\s+and\s+references)?$`)},
}

// canonicalHeadings reassembles a section map into markdown that reparses
// to the same map.
var canonicalHeadings = []struct {
	name    string
	heading string
}{
	{SectionSummary, "# Summary"},
	{SectionFindings, "# Key Findings"},
	{SectionMethodology, "# Methodology"},
	{SectionConclusions, "# Conclusions"},
	{SectionCitations, "# Citations and References"},
}

// headingRe matches any markdown heading line and captures its text.
var headingRe = regexp.MustCompile(`(?m)^#{1,6}[ \t]*(.*?)[ \t]*:?[ \t]*$`)

// ParseSections splits raw markdown into the recognized named sections.
// Each section runs from its heading to the next heading (of any name) or
// end of text, trimmed. If none of summary/findings/methodology match,
// the entire input becomes the summary so callers never render an empty
// result when the model deviates from the requested format.
func ParseSections(markdown string) map[string]string {
	sections := make(map[string]string, len(sectionTable))
	for _, entry := range sectionTable {
		sections[entry.name] = ""
	}

	matches := headingRe.FindAllStringSubmatchIndex(markdown, -1)
	for i, m := range matches {
		title := markdown[m[2]:m[3]]

		name := classifyHeading(title)
		if name == "" || sections[name] != "" {
			continue
		}

		start := m[1] // end of the heading line
		end := len(markdown)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections[name] = strings.TrimSpace(markdown[start:end])
	}

	if sections[SectionSummary] == "" && sections[SectionFindings] == "" && sections[SectionMethodology] == "" {
		sections[SectionSummary] = strings.TrimSpace(markdown)
	}

	return sections
}

// classifyHeading returns the section name for a heading title, or "".
func classifyHeading(title string) string {
	for _, entry := range sectionTable {
		if entry.heading.MatchString(title) {
			return entry.name
		}
	}
	return ""
}

// Reassemble joins a section map back into markdown under the canonical
// headings, skipping empty sections. ParseSections(Reassemble(m)) == m for
// any map produced by ParseSections on heading-bearing input.
func Reassemble(sections map[string]string) string {
	var sb strings.Builder
	for _, entry := range canonicalHeadings {
		content := sections[entry.name]
		if content == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(entry.heading)
		sb.WriteByte('\n')
		sb.WriteString(content)
	}
	return sb.String()
}
