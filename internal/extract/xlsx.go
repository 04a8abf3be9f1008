package extract

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxExtractor struct{}

// NewXLSXExtractor returns an Extractor for XLSX files, built on
// github.com/xuri/excelize/v2's streaming row iterator. Each sheet's
// text is prefixed with a "Sheet: <name>" line.
func NewXLSXExtractor() Extractor { return xlsxExtractor{} }

func (xlsxExtractor) Name() string                  { return "xlsx" }
func (xlsxExtractor) SupportedExtensions() []string { return []string{".xlsx", ".xlsm"} }

const maxSheetColumns = 1000

func (xlsxExtractor) Extract(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", newError(CorruptedFile, err.Error())
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		fmt.Fprintf(&b, "\nSheet: %s\n", sheet)
		rows, err := f.Rows(sheet)
		if err != nil {
			continue
		}
		for rows.Next() {
			row, err := rows.Columns()
			if err != nil {
				break
			}
			for colIdx, cell := range row {
				if colIdx > maxSheetColumns {
					break
				}
				if cell == "" {
					continue
				}
				b.WriteString(cell)
				b.WriteByte('\t')
			}
			b.WriteByte('\n')
		}
		rows.Close()
	}

	if b.Len() == 0 {
		return "", newError(CorruptedFile, "workbook has no readable sheets")
	}
	return b.String(), nil
}
