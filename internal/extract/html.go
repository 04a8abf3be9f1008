package extract

import (
	"os"

	readability "github.com/go-shiori/go-readability"
)

type htmlExtractor struct{}

// NewHTMLExtractor returns an Extractor for HTML pages saved to disk,
// built on github.com/go-shiori/go-readability, which strips markup down
// to article text. This is a supplement: PDF/DOCX/XLSX are the primary
// document formats, but nothing excludes other extractable formats.
func NewHTMLExtractor() Extractor { return htmlExtractor{} }

func (htmlExtractor) Name() string                  { return "html" }
func (htmlExtractor) SupportedExtensions() []string { return []string{".html", ".htm"} }

func (htmlExtractor) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", newError(IOError, err.Error())
	}
	defer f.Close()

	article, err := readability.FromReader(f, nil)
	if err != nil {
		return "", newError(CorruptedFile, err.Error())
	}
	if article.TextContent == "" {
		return "", newError(CorruptedFile, "no extractable text found")
	}
	return article.TextContent, nil
}
