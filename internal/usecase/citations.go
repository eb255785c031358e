package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pdfchat/internal/domain"
)

// retrievalCitations renders the "Sources used" footer for the chunks
// that made it into the context: filenames alphabetically, numbered
// from 1, pages sorted numerically when they parse as integers.
func retrievalCitations(results []domain.ScoredChunk) string {
	filePages := make(map[string]map[string]bool)
	for _, r := range results {
		pages, ok := filePages[r.Chunk.Source]
		if !ok {
			pages = make(map[string]bool)
			filePages[r.Chunk.Source] = pages
		}
		if r.Chunk.Page != domain.PageUnknown {
			pages[r.Chunk.Page] = true
		}
	}

	if len(filePages) == 0 {
		return "\n\nNo sources found."
	}

	files := make([]string, 0, len(filePages))
	for file := range filePages {
		files = append(files, file)
	}
	sort.Strings(files)

	var b strings.Builder
	b.WriteString("\n\nSources used:\n")
	for i, file := range files {
		pages := sortedPages(filePages[file])
		if len(pages) > 0 {
			fmt.Fprintf(&b, "%d. %s, pages: %s\n", i+1, file, strings.Join(pages, ", "))
		} else {
			fmt.Fprintf(&b, "%d. %s\n", i+1, file)
		}
	}
	return b.String()
}

// summaryCitations lists every indexed source as fully used.
func summaryCitations(sess *Session) string {
	files := make([]string, 0, len(sess.files))
	for file := range sess.files {
		files = append(files, file)
	}
	if len(files) == 0 {
		return "\n\nNo sources found."
	}
	sort.Strings(files)

	var b strings.Builder
	b.WriteString("\n\nSources used:\n")
	for i, file := range files {
		fmt.Fprintf(&b, "%d. %s, all pages used\n", i+1, file)
	}
	return b.String()
}

// sortedPages orders page labels numerically where possible; labels
// that do not parse as integers sort lexically after the numeric ones.
func sortedPages(set map[string]bool) []string {
	pages := make([]string, 0, len(set))
	for p := range set {
		pages = append(pages, p)
	}

	sort.Slice(pages, func(i, j int) bool {
		a, aerr := strconv.Atoi(pages[i])
		b, berr := strconv.Atoi(pages[j])
		switch {
		case aerr == nil && berr == nil:
			return a < b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		default:
			return pages[i] < pages[j]
		}
	})
	return pages
}
