// Package plot renders PNG charts of the dashboard views.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/carbon_analyzer/aggregate"
)

var ErrNoData = errors.New("no data to plot")

// DrawTopSites renders the top-N bar chart; green bars are green-hosted sites.
func DrawTopSites(labels []string, values []float64, green []bool, nameYAxis, nameGraph string) ([]byte, error) {
	return DrawPlotBar(NewSitesForGraph(labels, values, green, nameYAxis, nameGraph))
}

func DrawPlotBar(data dataForGraph) ([]byte, error) {
	barValues := data.generateBarValues()
	if len(barValues) == 0 {
		return nil, ErrNoData
	}
	paddingX := customizePaddingXBottom(barValues)
	width, height := data.calculateChartDimensions(100)

	maxY := findMaxValue(data.getYValues())
	var ticks []chart.Tick
	if gridStep := calculateGridStep(maxY); gridStep > 0 {
		maxY = math.Ceil(maxY/gridStep) * gridStep
		for i := 0.0; i <= maxY+gridStep/2; i += gridStep {
			ticks = append(ticks, chart.Tick{Value: i, Label: formatTick(i)})
		}
	} else {
		maxY = 1
	}

	bar := chart.BarChart{}
	bar.Title = data.GetNameGraph()
	bar.Background = chart.Style{
		FontSize:    160,
		StrokeColor: chart.ColorBlack,
		Padding: chart.Box{
			Bottom: paddingX,
			Top:    50,
		},
	}
	bar.Height = height + 50
	bar.Width = width + paddingX + 50
	bar.BarWidth = 60
	bar.Bars = barValues
	bar.YAxis = chart.YAxis{
		Name: data.getNameYAxis(),
		Range: &chart.ContinuousRange{
			Min: 0.0,
			Max: maxY,
		},
		Style: chart.Style{
			StrokeWidth: 2,
			StrokeColor: chart.ColorBlack,
			FontSize:    17,
		},
		Ticks: ticks,
		GridMajorStyle: chart.Style{
			StrokeColor:     chart.ColorBlack,
			StrokeWidth:     1,
			DotWidth:        1,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
	bar.XAxis = chart.Style{
		StrokeWidth:         2,
		StrokeColor:         chart.ColorBlack,
		TextRotationDegrees: 88,
		FontSize:            17,
	}
	buffer := bytes.NewBuffer([]byte{})

	err := bar.Render(chart.PNG, buffer)
	if err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}

	return buffer.Bytes(), nil
}

// DrawScatter renders page weight against CO₂. Green and non-green sites are
// separate series; outliers get a black ring.
func DrawScatter(view aggregate.ScatterView) ([]byte, error) {
	if view.Empty() {
		return nil, ErrNoData
	}

	var series []chart.Series
	var outliers []aggregate.ScatterPoint
	for _, p := range view.Green {
		if p.Outlier {
			outliers = append(outliers, p)
		}
	}
	for _, p := range view.NotGreen {
		if p.Outlier {
			outliers = append(outliers, p)
		}
	}
	if len(outliers) > 0 {
		// drawn first so the coloured dot sits inside a black ring
		ring := scatterSeries("top 10% CO₂", outliers, outlierColor)
		ring.Style.DotWidth = 9
		series = append(series, ring)
	}
	if len(view.Green) > 0 {
		series = append(series, scatterSeries("green hosting", view.Green, greenColor))
	}
	if len(view.NotGreen) > 0 {
		series = append(series, scatterSeries("not green", view.NotGreen, notGreenColor))
	}

	var xs, ys []float64
	for _, p := range append(append([]aggregate.ScatterPoint{}, view.Green...), view.NotGreen...) {
		xs = append(xs, p.SizeMB)
		ys = append(ys, p.CO2)
	}

	graph := chart.Chart{
		Title: "Page weight vs CO₂",
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 40,
			},
			FillColor: drawing.ColorWhite,
		},
		Width:  1600,
		Height: 900,
		XAxis: chart.XAxis{
			Name:  "Page weight (MB)",
			Range: paddedRange(xs),
			ValueFormatter: func(v interface{}) string {
				if vf, isFloat := v.(float64); isFloat {
					return fmt.Sprintf("%.1f", vf)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name:  "CO₂ (g) / visit",
			Range: paddedRange(ys),
			ValueFormatter: func(v interface{}) string {
				if vf, isFloat := v.(float64); isFloat {
					return fmt.Sprintf("%.3f", vf)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}

func scatterSeries(name string, points []aggregate.ScatterPoint, color drawing.Color) chart.ContinuousSeries {
	s := chart.ContinuousSeries{
		Name: name,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    6,
			DotColor:    color.WithAlpha(160),
		},
	}
	for _, p := range points {
		s.XValues = append(s.XValues, p.SizeMB)
		s.YValues = append(s.YValues, p.CO2)
	}
	return s
}

// paddedRange spans values from zero with some headroom; go-chart refuses a
// zero-width range.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo := math.Min(0, findMinValue(values))
	hi := findMaxValue(values) * 1.1
	if hi <= lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func formatTick(v float64) string {
	switch {
	case v == 0:
		return "0"
	case v >= 10:
		return fmt.Sprintf("%.0f", v)
	case v >= 0.1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.5f", v)
	}
}

// calculateGridStep picks a 1-2-5 style step for an axis ending at maxValue.
func calculateGridStep(maxValue float64) float64 {
	if maxValue <= 0 || math.IsNaN(maxValue) || math.IsInf(maxValue, 0) {
		return 0
	}
	if maxValue < 1e-10 {
		return 1e-10
	}

	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}

	finalStep := step * magnitude
	if finalStep >= 1000 {
		return math.Round(finalStep/100) * 100
	}
	if finalStep >= 100 {
		return math.Round(finalStep/10) * 10
	}
	return finalStep
}

func findMaxValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	max := y[0]
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max
}

func findMinValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	min := y[0]
	for _, v := range y {
		if v < min {
			min = v
		}
	}
	return min
}

func customizePaddingXBottom(values []chart.Value) int {
	count := 0
	for _, v := range values {
		if len(v.Label) > count {
			count = len(v.Label)
		}
	}
	return int(count * 8)
}
