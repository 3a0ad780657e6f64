package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	gochart "github.com/wcharczuk/go-chart/v2"
)

var ErrNoData = errors.New("no scores to plot")

const (
	chartWidth  = 1024
	chartHeight = 512
	barWidth    = 60
)

// BarPNG renders one group's domain scores as a PNG bar chart. Undefined
// scores get no bar and are listed in the title instead of drawn as zero.
func BarPNG(row domain.GroupScoreRow, mode domain.ScoreMode) ([]byte, error) {
	var bars []gochart.Value
	var missing []string
	maxScore := 0.0
	for _, s := range row.Scores {
		if s.Score == nil {
			missing = append(missing, string(s.Domain))
			continue
		}
		bars = append(bars, gochart.Value{Label: string(s.Domain), Value: *s.Score})
		maxScore = math.Max(maxScore, *s.Score)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, row.Group)
	}

	title := row.Group
	if len(missing) > 0 {
		title = fmt.Sprintf("%s (no data: %s)", row.Group, strings.Join(missing, ", "))
	}

	graph := gochart.BarChart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth,
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: yMax(mode, maxScore)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// yMax pins percentages to 0..100; mean scores use the observed maximum,
// at least 1.
func yMax(mode domain.ScoreMode, observed float64) float64 {
	if mode == domain.ScoreYesPercentage {
		return 100
	}
	return math.Max(1, math.Ceil(observed))
}
