// Package render draws evaluation results: the time-series chart, metric readouts,
// the interactive page and spreadsheet exports.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/RyanBlaney/sonido-speaker/config"
	"github.com/RyanBlaney/sonido-speaker/speaker"
)

// Series names as shown in the legend and on the axes
const (
	SeriesVoltage       = "Voltage (V)"
	SeriesCurrent       = "Current (A)"
	SeriesDisplacement  = "Displacement (mm)"
	SeriesMagneticField = "Magnetic field (T)"
)

type seriesSpec struct {
	name  string
	color string
	trace func(*speaker.Traces) []float64
	scale func(speaker.AxisScales) speaker.AxisScale
}

// axis order is series order: voltage left, the rest stacked on the right
var chartSeries = []seriesSpec{
	{
		name:  SeriesVoltage,
		color: "#1f77b4",
		trace: func(t *speaker.Traces) []float64 { return t.Voltage },
		scale: func(a speaker.AxisScales) speaker.AxisScale { return a.Voltage },
	},
	{
		name:  SeriesCurrent,
		color: "#ff7f0e",
		trace: func(t *speaker.Traces) []float64 { return t.Current },
		scale: func(a speaker.AxisScales) speaker.AxisScale { return a.Current },
	},
	{
		name:  SeriesDisplacement,
		color: "#2ca02c",
		trace: func(t *speaker.Traces) []float64 { return t.Displacement },
		scale: func(a speaker.AxisScales) speaker.AxisScale { return a.Displacement },
	},
	{
		name:  SeriesMagneticField,
		color: "#d62728",
		trace: func(t *speaker.Traces) []float64 { return t.MagneticField },
		scale: func(a speaker.AxisScales) speaker.AxisScale { return a.MagneticField },
	},
}

// ChartID names the echarts instance; the page script refers to it as goecharts_<ChartID>
const ChartID = "speaker_chart"

// rightAxisSpacing is the horizontal gap in px between stacked right-hand axes
const rightAxisSpacing = 70

// axisOffsetScript spreads the right-hand axes apart. opts.YAxis has no offset
// member, so the offsets are applied through setOption after the chart is built.
func axisOffsetScript(axes int) string {
	parts := make([]string, axes)
	parts[0] = "{}"
	for i := 1; i < axes; i++ {
		parts[i] = fmt.Sprintf("{offset:%d}", (i-1)*rightAxisSpacing)
	}
	return fmt.Sprintf("goecharts_%s.setOption({yAxis:[%s]});", ChartID, strings.Join(parts, ","))
}

// WindowLen returns how many leading samples fall inside [0, window]
func WindowLen(tv *speaker.TimeVector, window float64) int {
	return tv.CountBefore(math.Nextafter(window, math.Inf(1)))
}

func yAxis(spec seriesSpec, scale speaker.AxisScale, index int) opts.YAxis {
	axis := opts.YAxis{
		Name: spec.name,
		Type: "value",
		Min:  scale.Min,
		Max:  scale.Max,
		AxisLine: &opts.AxisLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: spec.color},
		},
	}
	if index > 0 {
		axis.Position = "right"
		// only the primary axis draws grid lines
		axis.SplitLine = &opts.SplitLine{Show: opts.Bool(false)}
	}
	return axis
}

// NewChart builds the multi-axis time chart for one result.
// Only samples inside the chart window are embedded.
func NewChart(r *speaker.Result, cfg config.ChartConfig) *charts.Line {
	n := WindowLen(r.Time, cfg.Window)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Loudspeaker model",
			ChartID:   ChartID,
			Width:     "100%",
			Height:    fmt.Sprintf("%dpx", cfg.Height),
		}),
		charts.WithTitleOpts(opts.Title{Title: "Quantities versus time"}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Orient: "horizontal",
			Top:    "5%",
			Right:  "0",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithGridOpts(opts.Grid{Left: "60", Right: "240", Top: "80", Bottom: "50"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Time (s)",
			Type: "value",
			Min:  0,
			Max:  cfg.Window,
		}),
		charts.WithYAxisOpts(yAxis(chartSeries[0], chartSeries[0].scale(r.Axes), 0)),
	)

	for i, spec := range chartSeries[1:] {
		line.ExtendYAxis(yAxis(spec, spec.scale(r.Axes), i+1))
	}

	line.AddJSFuncStrs(types.FuncStr(axisOffsetScript(len(chartSeries))))

	for i, spec := range chartSeries {
		trace := spec.trace(&r.Traces)
		data := make([]opts.LineData, n)
		for j := 0; j < n; j++ {
			data[j] = opts.LineData{Value: []any{r.Time.At(j), trace[j]}}
		}

		line.AddSeries(spec.name, data,
			charts.WithLineChartOpts(opts.LineChart{
				YAxisIndex: i,
				ShowSymbol: opts.Bool(false),
			}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: spec.color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: spec.color}),
		)
	}

	return line
}

// WriteChart renders the chart as a standalone HTML page
func WriteChart(w io.Writer, r *speaker.Result, cfg config.ChartConfig) error {
	if err := NewChart(r, cfg).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
