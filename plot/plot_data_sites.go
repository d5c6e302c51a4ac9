package plot

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	greenColor    = drawing.ColorFromHex("2e7d32")
	notGreenColor = drawing.ColorFromHex("c62828")
	outlierColor  = drawing.ColorBlack
)

type sitesForGraph struct {
	labels    []string
	values    []float64
	green     []bool
	nameYAxis string
	nameGraph string
}

// NewSitesForGraph pairs site labels with their metric values. green marks
// the bars drawn in the green-hosting colour; it may be shorter than labels.
func NewSitesForGraph(labels []string, values []float64, green []bool, nameYAxis, nameGraph string) sitesForGraph {
	return sitesForGraph{
		labels:    labels,
		values:    values,
		green:     green,
		nameYAxis: nameYAxis,
		nameGraph: nameGraph,
	}
}

func (d sitesForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d sitesForGraph) getNameYAxis() string {
	return d.nameYAxis
}
func (d sitesForGraph) getYValues() []float64 {
	return d.values
}

func (d sitesForGraph) isGreen(i int) bool {
	return i < len(d.green) && d.green[i]
}

func (d sitesForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	n := len(d.labels)
	if len(d.values) < n {
		n = len(d.values)
	}
	if n == 0 || minBarWidth <= 0 {
		return 0, 0
	}
	x := 1.1
	if n < 2 {
		x = 10.0
	} else if n < 10 {
		x = 3.0
	}

	const (
		paddingY     = 100
		spacingRatio = 0.2
		aspectRatio  = 9.0 / 16.0
	)

	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(n) + paddingY
	width = int(totalWidth*x) + paddingY
	height = int(float64(width) * aspectRatio)
	return width, height
}

func (d sitesForGraph) generateBarValues() []chart.Value {
	var bars []chart.Value
	for i := 0; i < len(d.labels) && i < len(d.values); i++ {
		fill := notGreenColor
		if d.isGreen(i) {
			fill = greenColor
		}
		bars = append(bars, chart.Value{
			Value: d.values[i],
			Label: d.labels[i],
			Style: chart.Style{
				FillColor:   fill.WithAlpha(180),
				StrokeColor: fill,
			},
		})
	}
	return bars
}
