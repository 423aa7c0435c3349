package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-speaker/audio"
	"github.com/RyanBlaney/sonido-speaker/config"
	"github.com/RyanBlaney/sonido-speaker/logging"
)

func TestMain(m *testing.M) {
	logging.SetGlobalLogger(&logging.NoOpLogger{})
	m.Run()
}

type fakePlayer struct {
	err    error
	played []*audio.Buffer
}

func (f *fakePlayer) Play(ctx context.Context, buf *audio.Buffer) error {
	f.played = append(f.played, buf)
	return f.err
}

func newTestServer(player audio.Player) http.Handler {
	return New(config.DefaultConfig(), player).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPageUsesDefaults(t *testing.T) {
	rec := get(t, newTestServer(&fakePlayer{}), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "0.62 A")
	assert.Contains(t, rec.Body.String(), "31.25 mN")
}

func TestEvaluateAPI(t *testing.T) {
	h := newTestServer(&fakePlayer{})

	tests := []struct {
		name      string
		query     string
		voltage   float64
		frequency float64
	}{
		{"explicit", "?voltage=10&frequency=1000", 10, 1000},
		{"defaults", "", 5, 440},
		{"clamped", "?voltage=99&frequency=5", 20, 20},
		{"snapped", "?voltage=2.34&frequency=444", 2.3, 440},
		{"malformed", "?voltage=loud&frequency=NaN", 5, 440},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, "/api/evaluate"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp EvaluateResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			assert.InDelta(t, tt.voltage, resp.Parameters.VoltageAmplitude, 1e-9)
			assert.InDelta(t, tt.frequency, resp.Parameters.Frequency, 1e-9)
			assert.InDelta(t, tt.voltage/8, resp.Peaks.Current, 1e-9)
			assert.Equal(t, 44100, resp.Samples)
			assert.InDelta(t, 22, resp.Axes.Voltage.Max, 1e-9)
			assert.Len(t, resp.Metrics, 4)
		})
	}
}

func TestPlay(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		player := &fakePlayer{}
		h := newTestServer(player)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/play?voltage=20&frequency=441", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Playback finished.")
		require.Len(t, player.played, 1)
		assert.Len(t, player.played[0].Samples, 44100)
		assert.Equal(t, 44100, player.played[0].SampleRate)
	})

	t.Run("device unavailable is a warning", func(t *testing.T) {
		player := &fakePlayer{err: &audio.PlaybackError{Op: "open device", Err: errors.New("no output device")}}
		h := newTestServer(player)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/play", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `class="warning"`)
		assert.Contains(t, body, "Could not play sound: audio open device: no output device")
		assert.Contains(t, body, "31.25 mN", "page still renders")
	})

	t.Run("get is not allowed", func(t *testing.T) {
		rec := get(t, newTestServer(&fakePlayer{}), "/play")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestChartAndDownloads(t *testing.T) {
	h := newTestServer(&fakePlayer{})

	chart := get(t, h, "/chart?voltage=5&frequency=440")
	require.Equal(t, http.StatusOK, chart.Code)
	assert.Contains(t, chart.Body.String(), "Magnetic field (T)")

	wav := get(t, h, "/audio.wav")
	require.Equal(t, http.StatusOK, wav.Code)
	assert.Equal(t, "audio/wav", wav.Header().Get("Content-Type"))
	assert.Equal(t, "RIFF", wav.Body.String()[:4])

	xlsx := get(t, h, "/export.xlsx")
	require.Equal(t, http.StatusOK, xlsx.Code)
	assert.Equal(t, "PK", xlsx.Body.String()[:2], "xlsx is a zip archive")
}

func TestUnknownPath(t *testing.T) {
	rec := get(t, newTestServer(&fakePlayer{}), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
