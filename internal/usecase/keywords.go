package usecase

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"pdfchat/internal/logger"
	"pdfchat/internal/port"
)

const keywordSystemPrompt = `You are an expert assistant for document retrieval from PDF texts.

Your task:
- Extract only domain-specific technical terms, key concepts, or named entities from the question.
- Avoid generic words like "model", "approach", "data", "paper", "study", "method", "research", "document".
- If appropriate, return multi-word keyphrases rather than splitting them into single words.
- Prefer precise terminology over broad words.

Return only a JSON array of keywords, with no extra explanation.`

var wordRe = regexp.MustCompile(`\w+`)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "using": true, "into": true, "over": true,
	"under": true, "between": true, "which": true, "what": true, "whose": true,
	"these": true, "those": true, "also": true, "their": true, "there": true,
	"where": true, "when": true, "how": true, "than": true, "such": true,
	"some": true, "have": true, "has": true, "been": true, "but": true,
	"can": true, "could": true, "will": true, "would": true, "should": true,
	"may": true, "might": true,
}

// KeywordExtractor asks the language model for retrieval keyphrases.
// Best-effort: on any model or parse failure it falls back to a
// stopword-filtered word split. It is diagnostic tooling, not part of
// the retrieval contract.
type KeywordExtractor struct {
	generator port.Generator
}

func NewKeywordExtractor(generator port.Generator) *KeywordExtractor {
	return &KeywordExtractor{generator: generator}
}

func (k *KeywordExtractor) Extract(ctx context.Context, question string) []string {
	var output string
	err := k.generator.Stream(ctx, keywordSystemPrompt, "Question:\n"+question, func(cumulative string) {
		output = cumulative
	})
	if err != nil {
		logger.Warn("keyword extraction failed, using fallback: %v", err)
		return fallbackKeywords(question)
	}

	keywords, ok := parseKeywordArray(output)
	if !ok {
		return fallbackKeywords(question)
	}
	return keywords
}

// parseKeywordArray pulls the first JSON array out of the model output,
// tolerating prose around it.
func parseKeywordArray(output string) ([]string, bool) {
	start := strings.Index(output, "[")
	end := strings.LastIndex(output, "]")
	if start < 0 || end <= start {
		return nil, false
	}

	var raw []string
	if err := json.Unmarshal([]byte(output[start:end+1]), &raw); err != nil {
		return nil, false
	}

	keywords := make([]string, 0, len(raw))
	for _, k := range raw {
		if strings.TrimSpace(k) != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords, true
}

func fallbackKeywords(question string) []string {
	words := wordRe.FindAllString(strings.ToLower(question), -1)
	var keywords []string
	for _, w := range words {
		if len(w) > 3 && !stopwords[w] {
			keywords = append(keywords, w)
		}
	}
	return keywords
}
