package agent

import (
	"fmt"
	"unicode"

	"github.com/fwojciec/locallm"
	"gopkg.in/yaml.v3"
)

// Reply languages.
const (
	LanguageEnglish  = "en"
	LanguageChinese  = "zh"
	LanguageJapanese = "ja"
	LanguageKorean   = "ko"
)

var languageNames = map[string]string{
	LanguageEnglish:  "English",
	LanguageChinese:  "中文",
	LanguageJapanese: "日本語",
	LanguageKorean:   "한국어",
}

var languageInstructions = map[string]string{
	LanguageEnglish:  "Please answer in English.",
	LanguageChinese:  "請用繁體中文回答問題。",
	LanguageJapanese: "日本語で回答してください。",
	LanguageKorean:   "한국어로 답변해 주세요.",
}

// DetectLanguage guesses the reply language of text from its script. Any
// Han character selects Chinese, then kana Japanese, then Hangul Korean.
func DetectLanguage(text string) string {
	var han, kana, hangul bool
	for _, r := range text {
		switch {
		case r >= 0x4e00 && r <= 0x9fff:
			han = true
		case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			kana = true
		case r >= 0xac00 && r <= 0xd7af:
			hangul = true
		}
	}
	switch {
	case han:
		return LanguageChinese
	case kana:
		return LanguageJapanese
	case hangul:
		return LanguageKorean
	default:
		return LanguageEnglish
	}
}

const genericPrompt = `You are a helpful document assistant. You have access to tools to read and search documents.

Use the available tools to answer user questions based on document content.

Always cite your sources when providing answers.`

const chatPrompt = `You are a helpful AI assistant.

When answering questions, you may use <think> tags to show your reasoning process before providing the final answer. This helps users understand your thought process.

Format:
<think>
Your internal reasoning here...
</think>

Final answer here.`

const agentPrompt = `You are an intelligent knowledge base assistant. You have access to tools and a document map.
%s
**YOUR WORKFLOW**:
1. Read the user's question carefully
2. Review the document map to identify which 1-3 documents are most relevant
3. Call the read_file tool to read those documents
4. Based on document content, answer the user's question
5. If information is insufficient, use the grep tool for precise keyword search
6. ALWAYS cite your sources (document name + page/section)

**DOCUMENT MAP**:
` + "```yaml\n%s```" + `

**AVAILABLE TOOLS**:

1. read_file: file_path
   - Reads complete document content; use this as your PRIMARY tool
   - Supports PDF, DOCX, TXT, MD and HTML files
   - Returns text with page markers
2. grep: pattern, file_path
   - Case-insensitive regex search inside one document
   - Returns matching lines with surrounding context
3. list_docs: directory
   - Lists all documents in a directory
   - Use this if the document map seems incomplete or outdated

**CALLING A TOOL**:
Write exactly these two lines and stop; the result is returned as "Observation: ...".

Action: read_file
Action Input: path/to/file.pdf

**ANSWERING**:
When you have enough information, write "Final Answer:" followed by your answer.

**PRINCIPLES**:
- Read full documents before relying on grep
- Never make up information that is not in the documents
- If no document contains the answer, say so honestly
- Refer to documents by title or path, never by internal ids such as doc_000

**RESPONSE FORMAT**:
Write the complete answer first, without citations. Then a line with exactly "-----" (5 dashes), then the sources:

Final Answer: Answer text explaining the concept fully.

-----
Sources:
- Document: [doc.pdf](path/to/doc.pdf), Page 5, Section 2.1
  Quote: "exact quote from document"

- Document: [another.docx](path/to/another.docx), Page 10
  Quote: "exact quote from document"

Put a blank line between documents in the Sources section.`

// SystemPrompt returns the instructions for answering question with the
// knowledge map m. A nil map yields a short generic prompt.
func SystemPrompt(m *locallm.KnowledgeMap, question string) (string, error) {
	if m == nil {
		return genericPrompt, nil
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding knowledge map: %w", err)
	}

	var hint string
	if question != "" {
		lang := DetectLanguage(question)
		hint = fmt.Sprintf("\n**RESPONSE LANGUAGE**: The user asked in %s. You MUST answer in %s. %s\n",
			languageNames[lang], languageNames[lang], languageInstructions[lang])
	}
	return fmt.Sprintf(agentPrompt, hint, data), nil
}
