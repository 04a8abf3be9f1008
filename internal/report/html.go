package report

import (
	"encoding/json"
	"html/template"
	"io"

	"github.com/hemlocksec/pii-radar/internal/model"
	"github.com/hemlocksec/pii-radar/internal/templates"
)

// WriteHTML renders r as a self-contained HTML page using html/template
// with a marshal helper func for embedding JSON values.
func WriteHTML(w io.Writer, r *model.ScanResults) error {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"marshal": func(v interface{}) template.JS {
			b, _ := json.Marshal(v)
			return template.JS(b)
		},
	}).Parse(templates.ReportHTML)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
