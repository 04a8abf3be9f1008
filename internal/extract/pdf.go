package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

type pdfExtractor struct{}

// NewPDFExtractor returns an Extractor for PDF files, built on
// github.com/ledongthuc/pdf's page-by-page GetPlainText loop.
func NewPDFExtractor() Extractor { return pdfExtractor{} }

func (pdfExtractor) Name() string                  { return "pdf" }
func (pdfExtractor) SupportedExtensions() []string { return []string{".pdf"} }

func (pdfExtractor) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", newError(IOError, err.Error())
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", newError(IOError, err.Error())
	}

	doc, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "encrypt") {
			return "", newError(Encrypted, err.Error())
		}
		return "", newError(CorruptedFile, err.Error())
	}

	var b strings.Builder
	total := doc.NumPage()
	for i := 1; i <= total; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "\n\n--- Page %d ---\n", i)
		b.WriteString(content)
	}

	if b.Len() == 0 {
		return "", newError(CorruptedFile, "no extractable text found")
	}
	return b.String(), nil
}
