package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration(StagePassthrough, 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.ObservePassthrough("src/css", 3, 1200)
	pr.ObservePassthrough("src/css", 1, 100)

	assert.Equal(t, 1.0, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("success")))
	assert.Equal(t, 4.0, testutil.ToFloat64(pr.passthroughFiles.WithLabelValues("src/css")))
	assert.Equal(t, 1300.0, testutil.ToFloat64(pr.passthroughBytes.WithLabelValues("src/css")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveBuildDuration(time.Second)
	pr.IncBuildOutcome(BuildOutcomeFailed)
	pr.ObservePassthrough("x", 1, 1)
	pr.ObserveStageDuration("x", time.Second)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(BuildOutcomeSuccess)

	path := filepath.Join(t.TempDir(), "sitebuilder.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sitebuilder_build_outcomes_total{outcome="success"} 1`)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObservePassthrough("src/css", 1, 1)
	r.IncBuildOutcome(BuildOutcomeCanceled)
}
