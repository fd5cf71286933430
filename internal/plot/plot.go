// Package plot draws time series as SVG line charts.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

// ErrInsufficientData is returned when there are fewer than two points to draw.
var ErrInsufficientData = errors.New("plot: at least two points are needed")

// Point is one (date, value) sample.
type Point struct {
	Date  time.Time
	Value float64
}

// SVG draws points, which must be sorted by date, as a single labelled line.
func SVG(title, legend string, points []Point) ([]byte, error) {
	if len(points) < 2 {
		return nil, ErrInsufficientData
	}

	series := chart.TimeSeries{
		Name:    legend,
		XValues: make([]time.Time, len(points)),
		YValues: make([]float64, len(points)),
	}
	for i, p := range points {
		series.XValues[i] = p.Date
		series.YValues[i] = p.Value
	}

	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
			Range: flatRange(
				chart.TimeToFloat64(points[0].Date),
				chart.TimeToFloat64(points[len(points)-1].Date),
				float64(24*time.Hour),
			),
		},
		YAxis: chart.YAxis{
			Range: valueRange(points),
		},
		Series: []chart.Series{series},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", title, err)
	}
	return buf.Bytes(), nil
}

// valueRange pads a flat series so the axis has a non-zero span.
func valueRange(points []Point) chart.Range {
	lo, hi := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}
	pad := 1.0
	if lo != 0 {
		pad = abs(lo) / 10
	}
	return flatRange(lo, hi, pad)
}

// flatRange returns nil, letting the chart size the axis itself, unless lo == hi.
func flatRange(lo, hi, pad float64) chart.Range {
	if lo != hi {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
