// Package document loads uploaded files into page-ordered text.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page is the text of one page. Text files have a single page numbered 1.
type Page struct {
	Number int
	Text   string
}

// Document is a loaded source file. It only lives for the duration of an ingestion.
type Document struct {
	Source string // identifier surfaced as provenance, usually the upload filename
	Pages  []Page
}

// IsEmpty reports whether no page carries non-whitespace text.
func (d *Document) IsEmpty() bool {
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}

// SupportedExtensions lists the accepted file extensions (lower case).
var SupportedExtensions = []string{".pdf", ".txt"}

// IsSupported reports whether the filename has an accepted extension, ignoring case.
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads the file at path. The loader is chosen from the extension of source
// when set, else of path, so temp files with mangled names still load correctly.
func Load(path, source string) (*Document, error) {
	if source == "" {
		source = filepath.Base(path)
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".pdf":
		pages, err := loadPDF(path)
		if err != nil {
			return nil, err
		}
		return &Document{Source: source, Pages: pages}, nil
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return &Document{Source: source, Pages: []Page{{Number: 1, Text: string(data)}}}, nil
	default:
		return nil, fmt.Errorf("%w: %q (only PDF and text files are supported)", ErrUnsupportedType, filepath.Ext(source))
	}
}

// loadPDF extracts plain text page by page.
func loadPDF(path string) ([]Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, fmt.Errorf("%w: open PDF: %v", ErrUnreadable, err)
	}
	defer f.Close()

	pages := make([]Page, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrUnreadable, i, err)
		}
		pages = append(pages, Page{Number: i, Text: text})
	}

	return pages, nil
}
