package deco

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Plan is the decompression guidance for one model after replaying a profile.
type Plan struct {
	Model        string
	Ceiling      float64 // meters
	Stops        []Stop  // raw 3 m schedule
	Consolidated []Stop  // 5 m schedule
	TTS          float64 // minutes at the default ascent rate
	Risk         float64 // percent
}

// TotalStopTime sums the consolidated stop times.
func (p *Plan) TotalStopTime() float64 {
	times := make([]float64, len(p.Consolidated))
	for i, s := range p.Consolidated {
		times[i] = s.Time
	}
	return floats.Sum(times)
}

// RunProfile replays a dive profile through a model and returns its plan.
// Each segment sets the dive state, then advances the tissues by the segment
// time; gas carries over between segments and defaults to air.
func RunProfile(m Model, p *Profile) (*Plan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	gas := Air
	for _, seg := range p.Segments {
		if seg.Gas != nil {
			gas = GasMix{O2: seg.Gas.O2, He: seg.Gas.He}
		}
		depth := seg.Depth
		mix := gas
		m.UpdateDiveState(StateUpdate{Depth: &depth, Gas: &mix})
		m.UpdateTissueLoadings(seg.Time)
	}
	plan := &Plan{
		Model:        m.Name(),
		Ceiling:      m.Ceiling(),
		Stops:        m.DecompressionStops(),
		Consolidated: m.ConsolidatedStops(),
		TTS:          m.TTS(DefaultAscentRate),
		Risk:         m.DCSRisk(),
	}
	logrus.Infof("%s: ceiling %.1fm, %d stops, TTS %.1fmin, risk %.1f%%",
		plan.Model, plan.Ceiling, len(plan.Consolidated), plan.TTS, plan.Risk)
	return plan, nil
}

// Comparison aggregates the same profile across all six models.
type Comparison struct {
	Plans      []*Plan
	MeanRisk   float64
	RiskStdDev float64
}

// CompareModels replays a profile through every model variant using the
// profile's parameter fields and aggregates the risk scores.
func CompareModels(p *Profile) (*Comparison, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cmp := &Comparison{}
	risks := make([]float64, 0, len(ValidModels))
	for _, name := range []string{"buhlmann", "vpm", "rgbm", "hills", "nmri98", "thalmann"} {
		variant := *p
		variant.Model = name
		m, err := variant.NewModel()
		if err != nil {
			return nil, fmt.Errorf("constructing %s: %w", name, err)
		}
		plan, err := RunProfile(m, &variant)
		if err != nil {
			return nil, fmt.Errorf("running %s: %w", name, err)
		}
		cmp.Plans = append(cmp.Plans, plan)
		risks = append(risks, plan.Risk)
	}
	cmp.MeanRisk = stat.Mean(risks, nil)
	cmp.RiskStdDev = stat.StdDev(risks, nil)
	return cmp, nil
}
