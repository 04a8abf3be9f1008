// Package templates holds the HTML template used by internal/report's HTML
// renderer, inlined as a Go string constant rather than embedded from disk
// (see DESIGN.md).
package templates

// ReportHTML renders a ScanResults as a static, self-contained HTML page:
// summary counters up top, then one section (heading and table) per source
// with findings.
const ReportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>PII-Radar Report</title>
<style>
body { font-family: -apple-system, Segoe UI, sans-serif; margin: 2rem; color: #1a1a1a; }
h1 { font-size: 1.4rem; }
.summary { display: flex; gap: 1.5rem; margin-bottom: 1.5rem; flex-wrap: wrap; }
.summary div { background: #f4f4f6; border-radius: 6px; padding: 0.75rem 1rem; }
.summary .label { font-size: 0.75rem; color: #666; text-transform: uppercase; }
.summary .value { font-size: 1.3rem; font-weight: 600; }
table { width: 100%; border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #e2e2e5; font-size: 0.85rem; }
th { background: #fafafa; }
.source { font-weight: 600; margin-top: 1.5rem; }
.sev-critical { color: #b00020; font-weight: 600; }
.sev-high { color: #c9660c; }
.sev-medium { color: #8a7200; }
.sev-low { color: #3a6e3a; }
.failures li { color: #b00020; }
</style>
</head>
<body>
<h1>PII-Radar Report</h1>
<div class="summary">
  <div><div class="label">Items scanned</div><div class="value">{{.Stats.ItemsScanned}}</div></div>
  <div><div class="label">Items with matches</div><div class="value">{{.Stats.ItemsWithMatches}}</div></div>
  <div><div class="label">Total matches</div><div class="value">{{.Stats.TotalMatches}}</div></div>
  <div><div class="label">Duration</div><div class="value">{{.Duration}}</div></div>
</div>

{{if .ExtractionFailures}}
<h2>Extraction failures</h2>
<ul class="failures">
{{range .ExtractionFailures}}<li>{{.SourceID}}: {{.Reason}}</li>{{end}}
</ul>
{{end}}

{{range .Findings}}
{{if .Matches}}
<div class="source">{{.SourceID}}</div>
<table>
<tr><th>Line</th><th>Column</th><th>Detector</th><th>Country</th><th>Category</th><th>Confidence</th><th>Severity</th><th>Value</th></tr>
{{range .Matches}}
<tr>
  <td>{{.Location.Line}}</td>
  <td>{{.Location.Column}}</td>
  <td>{{.DetectorName}}</td>
  <td>{{.Country}}</td>
  <td>{{.Category}}</td>
  <td>{{.Confidence}}</td>
  <td class="sev-{{.Severity}}">{{.Severity}}</td>
  <td>{{.ValueMasked}}</td>
</tr>
{{end}}
</table>
{{end}}
{{end}}
</body>
</html>
`
