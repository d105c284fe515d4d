package index

import "fmt"

// Model options for each build mode.
const (
	temperature = 0.3

	fullNumPredict = 2000
	fullNumCtx     = 16384

	fastNumPredict = 800
	fastNumCtx     = 4096

	// minFullDescription is the shortest acceptable full-mode description.
	minFullDescription = 100
)

func fullPrompt(title, fileType, content string) string {
	return fmt.Sprintf(`Read this document and create a knowledge map entry.

**Document**: %s
**Format**: %s

**Full Content**:
%s

**Instructions**:
1. Write a 200-300 word description of what this document is about.
   - Focus on what would help someone decide whether the document answers their question.
   - Include specific details, technical terms, key findings and main themes.
2. Extract 5-10 keywords or concepts someone might search for.
   - Technical terms, topics, methods, tools or domain names.
   - Avoid author names, institutions and generic words.

**Output** (JSON only):
{"description": "...", "key_concepts": ["...", "..."]}

JSON:`, title, fileType, content)
}

func fastPrompt(title, fileType, block string) string {
	return fmt.Sprintf(`Based on this document's table of contents or abstract, create a brief knowledge map entry.

**Document**: %s
**Format**: %s

**TOC/Abstract**:
%s

**Instructions**:
Write a concise 150-200 word description and extract 5-10 keywords.

**Output** (JSON only):
{"description": "...", "key_concepts": ["...", "..."]}

JSON:`, title, fileType, block)
}
