package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/artemis-health/artemis/internal/models"
)

const (
	painChartWidth   = 640
	painChartHeight  = 240
	painChartPadding = 32
)

type PainChartMarker struct {
	X     float64
	Y     float64
	Date  time.Time
	Label string
	Pain  int
}

type PainChartGridLine struct {
	Y     float64
	Value int
}

// PainChart is SVG geometry for a line chart over a fixed [0,4] domain.
type PainChart struct {
	Width     int
	Height    int
	PlotLeft  int
	PlotRight int
	Polyline  string
	Markers   []PainChartMarker
	GridLines []PainChartGridLine
	Points    []ChartPoint
}

func BuildPainChart(points []ChartPoint) PainChart {
	chart := PainChart{
		Width:     painChartWidth,
		Height:    painChartHeight,
		PlotLeft:  painChartPadding,
		PlotRight: painChartWidth - painChartPadding,
		Points:    points,
	}

	plotHeight := float64(painChartHeight - 2*painChartPadding)
	plotWidth := float64(painChartWidth - 2*painChartPadding)
	yFor := func(value int) float64 {
		value = max(models.MinPainLevel, min(models.MaxPainLevel, value))
		ratio := float64(value-models.MinPainLevel) / float64(models.MaxPainLevel-models.MinPainLevel)
		return float64(painChartPadding) + plotHeight*(1-ratio)
	}

	for level := models.MinPainLevel; level <= models.MaxPainLevel; level++ {
		chart.GridLines = append(chart.GridLines, PainChartGridLine{Y: yFor(level), Value: level})
	}

	if len(points) == 0 {
		return chart
	}

	step := 0.0
	if len(points) > 1 {
		step = plotWidth / float64(len(points)-1)
	}
	coordinates := make([]string, 0, len(points))
	for index, point := range points {
		x := float64(painChartPadding) + step*float64(index)
		if len(points) == 1 {
			x = float64(painChartPadding) + plotWidth/2
		}
		y := yFor(point.Pain)
		chart.Markers = append(chart.Markers, PainChartMarker{X: x, Y: y, Date: point.Date, Label: point.Label, Pain: point.Pain})
		coordinates = append(coordinates, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	chart.Polyline = strings.Join(coordinates, " ")
	return chart
}
