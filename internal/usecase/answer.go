package usecase

import (
	"context"
	"fmt"
	"strings"

	"pdfchat/internal/domain"
	"pdfchat/internal/logger"
	"pdfchat/internal/port"
)

const (
	noticeUploadFirst = "Please upload PDF documents first."
	noticeNoMatch     = "No matching content found."
)

const systemInstruction = "You are an assistant helping to answer questions about uploaded PDF documents. Answer concisely using the provided context."

const promptTemplate = `When asked "What is the text about?", produce a summary of the overall topics and contributions of the documents, in plain language.
Do not simply list references or citations unless specifically asked.
When asked "What are the conclusions of the paper?", provide a concise summary of the main conclusions drawn in the documents.
When asked "What are the key findings?", summarize the most important findings or results presented in the documents.

Use the following context to answer the question below.
If the answer isn't contained in the context, say "I couldn't find that information."

Context:
%s

Question:
%s
`

// summarizeInstruction replaces the user's literal phrasing on the
// summarization path.
const summarizeInstruction = "Summarize the overall topics, findings and conclusions of the provided documents, in plain language."

var summarizeTriggers = map[string]bool{
	"summarize":              true,
	"summarize the text":     true,
	"what is the text about": true,
}

// AnswerUseCase turns a question plus the session's index into a
// grounded, cited, incrementally streamed answer.
type AnswerUseCase struct {
	generator       port.Generator
	topK            int
	maxDistance     float64
	maxSummaryChars int
}

func NewAnswerUseCase(generator port.Generator, topK int, maxDistance float64, maxSummaryChars int) *AnswerUseCase {
	if topK <= 0 {
		topK = 5
	}
	if maxDistance <= 0 {
		maxDistance = 0.7
	}
	if maxSummaryChars <= 0 {
		maxSummaryChars = 8000
	}
	return &AnswerUseCase{
		generator:       generator,
		topK:            topK,
		maxDistance:     maxDistance,
		maxSummaryChars: maxSummaryChars,
	}
}

// Answer yields the cumulative answer text after every streamed
// update, terminating when generation ends. Preconditions and failures
// surface as single terminal notices on the same channel. The returned
// channel is unbuffered; the consumer drives pacing.
func (u *AnswerUseCase) Answer(ctx context.Context, sess *Session, question string) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		if !sess.HasIndex() {
			emit(ctx, out, noticeUploadFirst)
			return
		}

		var contextBlock, footer, prompt string
		if isSummarizeRequest(question) {
			contextBlock = truncate(summaryContext(sess), u.maxSummaryChars)
			footer = summaryCitations(sess)
			prompt = summarizeInstruction
		} else {
			results, err := u.retrieve(sess, question)
			if err != nil {
				emit(ctx, out, fmt.Sprintf("Search failed: %v", err))
				return
			}

			kept := results[:0:0]
			for _, r := range results {
				if r.Score <= u.maxDistance {
					kept = append(kept, r)
				}
			}
			if len(kept) == 0 {
				emit(ctx, out, noticeNoMatch)
				return
			}

			contextBlock = retrievalContext(kept)
			footer = retrievalCitations(kept)
			prompt = question
		}

		user := fmt.Sprintf(promptTemplate, contextBlock, prompt)

		var last string
		err := u.generator.Stream(ctx, systemInstruction, user, func(cumulative string) {
			last = cumulative
			emit(ctx, out, cumulative+footer)
		})
		if err != nil {
			logger.Warn("generation failed: %v", err)
			emit(ctx, out, fmt.Sprintf("%s%s\n\nGeneration failed: %v", last, footer, err))
		}
	}()

	return out
}

func (u *AnswerUseCase) retrieve(sess *Session, question string) ([]domain.ScoredChunk, error) {
	if cached, ok := sess.queries.Get(question, u.topK); ok {
		logger.Debug("query cache hit")
		return cached, nil
	}

	results, err := sess.index.Query(question, u.topK)
	if err != nil {
		return nil, err
	}
	sess.queries.Put(question, u.topK, results)
	return results, nil
}

// isSummarizeRequest matches the trimmed, lowercased question against
// the fixed trigger set; anything longer takes the retrieval path.
func isSummarizeRequest(question string) bool {
	return summarizeTriggers[strings.ToLower(strings.TrimSpace(question))]
}

// summaryContext concatenates every cached chunk's text.
func summaryContext(sess *Session) string {
	var b strings.Builder
	for _, chunk := range sess.allChunks() {
		b.WriteString(chunk.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// retrievalContext builds one delimited block per surviving chunk, in
// retrieval-rank order.
func retrievalContext(results []domain.ScoredChunk) string {
	var b strings.Builder
	for _, r := range results {
		text := strings.ReplaceAll(strings.TrimSpace(r.Chunk.Text), "\n", " ")
		fmt.Fprintf(&b, "\n[Page %s — %s]\n%s\n", r.Chunk.Page, r.Chunk.Source, text)
	}
	return b.String()
}

// truncate enforces a hard character budget; a cost control, not a
// word-boundary-aware cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func emit(ctx context.Context, out chan<- string, s string) {
	select {
	case out <- s:
	case <-ctx.Done():
	}
}
