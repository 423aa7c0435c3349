package render

import (
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/RyanBlaney/sonido-speaker/config"
	"github.com/RyanBlaney/sonido-speaker/speaker"
)

// MessageKind selects the banner style
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageWarning MessageKind = "warning"
)

// Message is an optional status banner shown above the chart
type Message struct {
	Kind MessageKind
	Text string
}

// PageData is everything the interactive page shows
type PageData struct {
	Parameters speaker.DriveParameters
	Controls   config.ControlsConfig
	Metrics    []Metric
	Message    *Message
	Query      template.URL // already encoded by ParametersQuery
}

// NewPageData prepares page data for a result
func NewPageData(r *speaker.Result, controls config.ControlsConfig, msg *Message) PageData {
	return PageData{
		Parameters: r.Parameters,
		Controls:   controls,
		Metrics:    FormatMetrics(r.Peaks),
		Message:    msg,
		Query:      template.URL(ParametersQuery(r.Parameters)),
	}
}

// ParametersQuery encodes drive parameters as a URL query
func ParametersQuery(p speaker.DriveParameters) string {
	v := url.Values{}
	v.Set("voltage", fmt.Sprintf("%g", p.VoltageAmplitude))
	v.Set("frequency", fmt.Sprintf("%g", p.Frequency))
	return v.Encode()
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Loudspeaker model</title>
<style>
body { font-family: sans-serif; margin: 2em; }
.columns { display: flex; gap: 2em; }
.columns > div { flex: 1; }
.metrics { display: flex; gap: 1em; }
.metric { flex: 1; border: 1px solid #ddd; border-radius: 6px; padding: 0.8em; }
.metric .value { font-size: 1.6em; }
.success { background: #e6f4ea; padding: 0.6em; }
.warning { background: #fdecea; padding: 0.6em; }
iframe { width: 100%; height: 560px; border: 0; }
</style>
</head>
<body>
<h1>Interactive loudspeaker model</h1>
<p>This page models an electrodynamic loudspeaker. Change the input voltage and watch how the coil current,
the force on the diaphragm and its displacement respond.</p>

<div class="columns">
<div>
<h2>Device and operating principle</h2>
<ol>
<li><b>Input signal</b>: an alternating current from the amplifier (modelled as a voltage) drives the voice coil.</li>
<li><b>Voice coil</b>: the coil is rigidly attached to the diaphragm and sits in the radial field of a permanent magnet.</li>
<li><b>Field interaction</b>: the coil current produces its own alternating field; its interaction with the magnet's field gives rise to the <b>Ampere force</b>.</li>
<li><b>Diaphragm motion</b>: the Ampere force moves the coil and diaphragm back and forth following the input waveform.</li>
<li><b>Sound</b>: the diaphragm's motion creates compressions and rarefactions in the air that we hear as sound.</li>
</ol>
<p><i>This model simplifies many aspects; for example diaphragm displacement is taken as directly proportional to the Ampere force.</i></p>
</div>
<div>
<h2>Input signal</h2>
<form method="get" action="/">
<label>Voltage amplitude (U, V): <output>{{printf "%.1f" .Parameters.VoltageAmplitude}}</output><br>
<input type="range" name="voltage" min="{{.Controls.Voltage.Min}}" max="{{.Controls.Voltage.Max}}" step="{{.Controls.Voltage.Step}}" value="{{.Parameters.VoltageAmplitude}}" onchange="this.form.submit()"></label><br>
<label>Signal frequency (f, Hz): <output>{{printf "%.0f" .Parameters.Frequency}}</output><br>
<input type="range" name="frequency" min="{{.Controls.Frequency.Min}}" max="{{.Controls.Frequency.Max}}" step="{{.Controls.Frequency.Step}}" value="{{.Parameters.Frequency}}" onchange="this.form.submit()"></label>
<noscript><button type="submit">Update</button></noscript>
</form>
<form method="post" action="/play?{{.Query}}">
<button type="submit" style="width: 100%">Play sound</button>
</form>
{{with .Message}}<p class="{{.Kind}}">{{.Text}}</p>{{end}}
</div>
</div>

<h2>Visualization</h2>
<iframe src="/chart?{{.Query}}" title="Quantities versus time"></iframe>

<h2>Key computed values</h2>
<div class="metrics">
{{range .Metrics}}<div class="metric"><div>{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{end}}</div>

<details>
<summary>Formulas used</summary>
<p>The model uses the following simplified relations:</p>
<ol>
<li>Voltage (input signal): U(t) = U<sub>amp</sub> &middot; sin(2&pi;ft), where U<sub>amp</sub> is the voltage amplitude (V), f the frequency (Hz), t the time (s).</li>
<li>Coil current (Ohm's law): I(t) = U(t) / R, where R is the coil resistance (&Omega;).</li>
<li>Ampere force: F(t) = B &middot; I(t) &middot; L, where B is the permanent magnet's flux density (T) and L the length of wire in the field (m).</li>
<li>Diaphragm displacement: d(t) &prop; F(t). Displacement is taken as directly proportional to force for clarity.</li>
</ol>
</details>

<p>Downloads: <a href="/export.xlsx?{{.Query}}">traces (xlsx)</a> &middot; <a href="/audio.wav?{{.Query}}">sound (wav)</a> &middot; <a href="/api/evaluate?{{.Query}}">values (json)</a></p>
<hr>
<footer>&copy; Roman Zamaldinov, M3208.</footer>
</body>
</html>
`))

// WritePage renders the interactive page
func WritePage(w io.Writer, data PageData) error {
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
