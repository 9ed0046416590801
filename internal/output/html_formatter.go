package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/fuyou/internal/calculation"
	"github.com/rgehrsitz/fuyou/internal/domain"
)

// HTMLFormatter produces a standalone HTML report
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"yen":   formatYen,
	"man":   calculation.FormatMan,
	"alert": alertLabel,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(status *domain.FuyouStatus) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.FuyouStatus
		Rows        []domain.ThresholdStatus
		Assumptions []string
	}{status, sortedStatuses(status), DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
