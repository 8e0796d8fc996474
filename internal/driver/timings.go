package driver

import (
	"encoding/json"
	"fmt"

	"rocheck/internal/diag"
	"rocheck/internal/observ"
	"rocheck/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Files   int                  `json:"files"`
	Hits    int                  `json:"cache_hits"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic packs the timer report into an info diagnostic so that
// machine-readable output carries it next to the findings. The JSON payload
// goes into the single note.
func (r *Run) TimingDiagnostic(timer *observ.Timer) (diag.Diagnostic, bool) {
	report := timer.Report()
	if len(report.Phases) == 0 {
		return diag.Diagnostic{}, false
	}
	payload := timingPayload{
		Kind:    "check",
		Files:   r.Metrics.Files,
		Hits:    r.Metrics.CacheHits,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return diag.Diagnostic{}, false
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms, %d file(s)", payload.Kind, payload.TotalMS, payload.Files)
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data))
	return d, true
}
