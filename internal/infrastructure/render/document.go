package render

import (
	"bytes"
	"fmt"
	"html/template"

	"ncr-quality-backend/internal/domain/eightd"
)

var funcs = template.FuncMap{
	"step": func(i int) int { return i + 1 },
	"mark": func(v eightd.Verdict, want string) string {
		if v.String() == want {
			return "●"
		}
		return ""
	},
}

var reportTmpl = template.Must(template.New("8d").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="ko"><head><meta charset="utf-8"><title>8D {{.DocNo}}</title>
<style>
  body { margin: 0; font-family: "Noto Sans KR", "Malgun Gothic", sans-serif; font-size: 11px; color: #111; background: #fff; }
  .sheet { width: 794px; padding: 24px 28px; box-sizing: border-box; }
  h1 { font-size: 20px; margin: 0 0 4px; letter-spacing: 2px; }
  h2 { font-size: 12px; margin: 12px 0 4px; padding: 3px 6px; background: #1f3a5f; color: #fff; }
  table { width: 100%; border-collapse: collapse; }
  th, td { border: 1px solid #888; padding: 3px 5px; vertical-align: top; text-align: left; }
  th { background: #e8eef6; width: 16%; font-weight: 600; }
  .meta td { border: none; padding: 0 4px; }
  .center { text-align: center; }
  .pre { white-space: pre-wrap; }
</style></head>
<body><div class="sheet">
<h1>8D REPORT</h1>
<table class="meta"><tr><td>Doc No. {{.DocNo}}</td><td>Last update {{.LastUpdate}}</td></tr></table>

<h2>D1 Team</h2>
<table><tr>
  <th>Action</th><td>{{.RelatedPerson.ActionDetail}}</td>
  <th>Assembly</th><td>{{.RelatedPerson.AssemblyTeam}}</td>
  <th>Development</th><td>{{.RelatedPerson.DevelopmentTeam}}</td>
</tr></table>

<h2>D2 Problem description (7W)</h2>
<table>
  <tr><th>Who</th><td>{{.SevenW.Who}}</td><th>What</th><td>{{.SevenW.What}}</td></tr>
  <tr><th>When</th><td>{{.SevenW.When}}</td><th>Where</th><td>{{.SevenW.Where}}</td></tr>
  <tr><th>Why</th><td colspan="3" class="pre">{{.SevenW.Why}}</td></tr>
  <tr><th>How many</th><td>{{.SevenW.HowMany}}</td><th>How often</th><td>{{.SevenW.HowOften}}</td></tr>
</table>

<h2>D3 Containment</h2>
<table><tr><td class="pre">{{.Containment}}</td></tr></table>

<h2>D4 Root cause</h2>
<table>
  <tr><th class="center">Step</th><th>Why it happened</th><th>Why it was not detected</th></tr>
  {{- $miss := .RootCause.WhyNotDetected}}
  {{- range $i, $w := .RootCause.WhyHappened}}
  <tr><td class="center">Why {{step $i}}</td><td class="pre">{{$w}}</td><td class="pre">{{if lt $i (len $miss)}}{{index $miss $i}}{{end}}</td></tr>
  {{- end}}
  {{- with .RootCause.DiagramInfo}}<tr><th>Diagram</th><td colspan="2" class="pre">{{.}}</td></tr>{{end}}
</table>

<h2>D5 Countermeasures</h2>
<table>
  <tr><th>Type</th><th style="width:40%">Action</th><th>Owner</th><th>Complete</th><th>Implement</th><th>Status</th></tr>
  {{- range .Countermeasures}}
  <tr><td>{{.Kind}}</td><td class="pre">{{.Action}}</td><td>{{.Owner}}</td><td>{{.Complete}}</td><td>{{.Implement}}</td><td>{{.Status}}</td></tr>
  {{- end}}
</table>

<h2>D6 Verification</h2>
<table>
  <tr><th style="width:55%">Item</th><th class="center">Yes</th><th class="center">No</th><th>Date</th></tr>
  {{- range .Verification}}
  <tr><td>{{.Item}}</td><td class="center">{{mark .Verdict "pass"}}</td><td class="center">{{mark .Verdict "fail"}}</td><td>{{.Date}}</td></tr>
  {{- end}}
</table>

<h2>D7 Prevention and read across</h2>
<table>
  <tr><th>Standard</th><th>Owner</th><th>Complete</th><th>Read across</th><th>RA owner</th><th>RA complete</th></tr>
  {{- range .Prevention}}
  <tr><td>{{.Standard}}</td><td>{{.Owner}}</td><td>{{.Complete}}</td><td>{{.ReadAcross}}</td><td>{{.RAOwner}}</td><td>{{.RAComplete}}</td></tr>
  {{- end}}
</table>

<h2>D8 Review and confirmation</h2>
<table><tr><td class="pre">{{.ReviewAndConfirm}}</td></tr></table>
<table style="margin-top:8px">
  <tr><th class="center">Made by</th><th class="center">Reviewed by</th><th class="center">Approved by</th><th class="center">Date</th></tr>
  <tr><td class="center">{{.Approvals.MadeBy}}</td><td class="center">{{.Approvals.ReviewBy}}</td><td class="center">{{.Approvals.ApproveBy}}</td><td class="center">{{.Approvals.Date}}</td></tr>
</table>
</div></body></html>`))

// Document renders the report as a standalone HTML page 794px (A4 at 96dpi) wide.
func Document(r *eightd.Report) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("render report document: %w", err)
	}
	return buf.String(), nil
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
  @page { size: A4; margin: 0; }
  html, body { margin: 0; padding: 0; }
  img { display: block; width: {{.Width}}mm; height: {{.Height}}mm; }
</style></head>
<body><img src="{{.Src}}"></body></html>`))

type pageData struct {
	Src           template.URL
	Width, Height string
}

// imagePage places one PNG at the top-left of an A4 page.
func imagePage(pngBase64 string, widthMM, heightMM float64) (string, error) {
	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, pageData{
		Src:    template.URL("data:image/png;base64," + pngBase64),
		Width:  fmt.Sprintf("%.2f", widthMM),
		Height: fmt.Sprintf("%.2f", heightMM),
	})
	if err != nil {
		return "", fmt.Errorf("render pdf page: %w", err)
	}
	return buf.String(), nil
}
