package pdf

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"pdfchat/internal/domain"
)

// Extractor reads PDF files and produces one page-tagged text unit per
// page. Source is always the file's basename.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(path string) (units []domain.Chunk, err error) {
	filename := filepath.Base(path)

	// The pdf library panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			units = nil
			err = &domain.ExtractionError{File: filename, Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &domain.ExtractionError{File: filename, Err: err}
	}
	defer f.Close()

	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the file.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		units = append(units, domain.Chunk{
			Text:   text,
			Source: filename,
			Page:   strconv.Itoa(i),
		})
	}

	if len(units) == 0 {
		return nil, &domain.ExtractionError{File: filename, Err: fmt.Errorf("no text extracted")}
	}

	return units, nil
}
