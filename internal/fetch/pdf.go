// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/bloggpt/internal/logger"
)

// pageSource exposes a document page by page. Pages are numbered from 1.
type pageSource interface {
	NumPage() int
	PageText(i int) (string, error)
}

type pdfDocument struct {
	r *pdf.Reader
}

func (d pdfDocument) NumPage() int { return d.r.NumPage() }

func (d pdfDocument) PageText(i int) (text string, err error) {
	// The reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", i, r)
		}
	}()
	p := d.r.Page(i)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

// ExtractPDF returns the text of every readable page of a PDF. Pages that
// fail to extract are logged and skipped; only an unreadable document is
// an error.
func ExtractPDF(body []byte, log *logger.Logger) (string, error) {
	r, err := openPDF(body)
	if err != nil {
		return "", err
	}
	return extractPages(pdfDocument{r: r}, log), nil
}

func openPDF(body []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("opening PDF: %v", rec)
		}
	}()
	r, err = pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	return r, nil
}

func extractPages(doc pageSource, log *logger.Logger) string {
	var pages []string
	for i := 1; i <= doc.NumPage(); i++ {
		text, err := doc.PageText(i)
		if err != nil {
			log.Debug("skipping PDF page %d: %v", i, err)
			continue
		}
		if text = CleanLines(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, " ")
}
