package views

import (
	"fmt"
	"html/template"
	"slices"
	"strconv"
	"strings"

	"zettaboard/app/models"
)

const (
	chartWidth  = 300
	chartHeight = 100
	chartPad    = 8
)

// Funcs is the template function map shared by every page.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"brand":       func() string { return Brand },
		"initial":     models.Initial,
		"orDash":      models.OrDash,
		"href":        Href,
		"add":         func(a, b int) int { return a + b },
		"atLeastOne":  func(n int) int { return max(1, n) },
		"chartOK":     ChartOK,
		"chartPoints": ChartPoints,
		"gaugeStyle":  GaugeStyle,
		"banner":      NewBanner,
		"row":         NewInfoRow,
	}
}

// Banner is an error banner with an optional detail line and retry link.
type Banner struct {
	Text   string
	Detail string
	Retry  string
}

func NewBanner(text, detail, retry string) Banner {
	return Banner{Text: text, Detail: detail, Retry: retry}
}

// InfoRow is a label/value line; blank values render as a dash.
type InfoRow struct {
	Label string
	Value string
}

func NewInfoRow(label, value string) InfoRow {
	return InfoRow{Label: label, Value: value}
}

// ChartOK reports whether the series can be drawn: non-empty with one
// label per value.
func ChartOK(values []int, labels []string) bool {
	return len(values) > 0 && len(values) == len(labels)
}

// ChartPoints lays the values out as an SVG polyline inside a
// chartWidth x chartHeight box, highest value at the top.
func ChartPoints(values []int) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := slices.Min(values), slices.Max(values)
	span := float64(hi - lo)
	if span == 0 {
		span = 1
	}
	step := 0.0
	if len(values) > 1 {
		step = float64(chartWidth-2*chartPad) / float64(len(values)-1)
	}

	pts := make([]string, len(values))
	for i, v := range values {
		x := float64(chartPad) + step*float64(i)
		y := float64(chartHeight-chartPad) - float64(v-lo)/span*float64(chartHeight-2*chartPad)
		pts[i] = strconv.FormatFloat(x, 'f', 1, 64) + "," + strconv.FormatFloat(y, 'f', 1, 64)
	}
	return strings.Join(pts, " ")
}

// GaugeStyle exposes the gauge sweep to the stylesheet's conic-gradient.
func GaugeStyle(degrees float64) template.CSS {
	return template.CSS(fmt.Sprintf("--sweep: %sdeg", strconv.FormatFloat(degrees, 'f', -1, 64)))
}
