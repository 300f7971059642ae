// Package extract pulls plain text out of uploaded prospectus files.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"

	"prospectus/internal/domain"
)

// PageBreak separates pages in extracted text.
const PageBreak = "\f"

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether data starts with the PDF header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic)
}

// PDF returns the text of every page joined by PageBreak and the page count.
// Pages that fail to decode are left empty.
func PDF(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, eris.Wrap(err, "open pdf")
	}
	pages = reader.NumPage()
	parts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			parts = append(parts, "")
			continue
		}
		t, perr := p.GetPlainText(nil)
		if perr != nil {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, PageBreak), pages, nil
}

// Plain treats data as UTF-8 text. Form feeds count as page breaks.
func Plain(data []byte) (text string, pages int) {
	text = string(data)
	return text, strings.Count(text, PageBreak) + 1
}

// Document extracts data into a document named filename, detecting PDFs by
// their header.
func Document(filename string, data []byte) (domain.Document, error) {
	var (
		text  string
		pages int
		err   error
	)
	if IsPDF(data) {
		text, pages, err = PDF(data)
		if err != nil {
			return domain.Document{}, err
		}
	} else {
		text, pages = Plain(data)
	}
	return domain.Document{Filename: filename, Text: text, TotalPages: pages}, nil
}

// File reads and extracts the document at path.
func File(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, eris.Wrap(err, fmt.Sprintf("read %s", path))
	}
	return Document(filepath.Base(path), data)
}
