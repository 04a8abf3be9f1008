package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"
)

type docxExtractor struct{}

// NewDOCXExtractor returns an Extractor for OOXML .docx files.
//
// Unlike every other extractor in this registry, this one is built on the
// standard library (archive/zip + encoding/xml) rather than a third-party
// dependency: a .docx is a zip archive of XML parts, not an OLE compound
// file, so the legacy .doc/.xls binary-format readers pulled in
// transitively by other dependencies in this module cannot parse it, and
// no available library parses OOXML word-processing XML directly. See
// DESIGN.md for the full justification.
func NewDOCXExtractor() Extractor { return docxExtractor{} }

func (docxExtractor) Name() string                  { return "docx" }
func (docxExtractor) SupportedExtensions() []string { return []string{".docx"} }

type wordBody struct {
	XMLName xml.Name   `xml:"document"`
	Body    wordBodyEl `xml:"body"`
}

type wordBodyEl struct {
	Paragraphs []wordParagraph `xml:"p"`
}

type wordParagraph struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Text []string `xml:"t"`
}

func (docxExtractor) Extract(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", newError(CorruptedFile, err.Error())
	}
	defer zr.Close()

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", newError(CorruptedFile, "missing word/document.xml")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", newError(CorruptedFile, err.Error())
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", newError(IOError, err.Error())
	}

	var doc wordBody
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", newError(CorruptedFile, err.Error())
	}

	var b strings.Builder
	for _, p := range doc.Body.Paragraphs {
		for _, r := range p.Runs {
			for _, t := range r.Text {
				b.WriteString(t)
			}
		}
		b.WriteByte('\n')
	}

	if b.Len() == 0 {
		return "", newError(CorruptedFile, "no extractable text found")
	}
	return b.String(), nil
}
