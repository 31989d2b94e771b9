package analysis

import "fmt"

// paperPrompt instructs the model to emit the five fixed sections the
// parser recognizes. Changing the headings here breaks ParseSections.
func paperPrompt(text string) string {
	return fmt.Sprintf(`Analyze this research paper and provide a comprehensive analysis with the following clearly marked sections using markdown headers:

# Summary
A concise summary (3-5 sentences) covering the main purpose, methods, and key findings of the paper.

# Key Findings
The most important discoveries or contributions of the paper (bullet points).

# Methodology
A brief overview of the methods, study design, or approach used by the researchers.

# Conclusions
The main conclusions and implications of the research.

# Citations and References
List of the most important citations and references mentioned in the paper.

Make each section clearly formatted with proper markdown. Ensure content is substantive and focuses on the most significant aspects of the paper.

Paper content: %s`, text)
}

// videoPrompt requests a looser four-part structure rendered as one block.
func videoPrompt(videoID, transcript string) string {
	return fmt.Sprintf(`Analyze this YouTube video transcript and provide:
1. A concise summary (3-5 sentences)
2. Key points with timestamps (estimate timestamps if needed)
3. Main topics covered
4. Important quotes or statements

Format the output clearly with markdown headers.

Video ID: %s
Transcript: %s`, videoID, transcript)
}
