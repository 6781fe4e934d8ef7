package loans

import (
	"sort"

	"github.com/iwvelando/paydown-forecast/pkg/errs"
)

// BandTableSpec is the raw configuration of a banded product.
type BandTableSpec struct {
	// Boundaries are the ascending balance edges; band i covers
	// [Boundaries[i], Boundaries[i+1]).
	Boundaries []float64
	// MinPrincipalPct is the monthly minimum payment, in percent of principal,
	// for each band.
	MinPrincipalPct []float64
	// MinFloor is the minimum amount of every payment for each band,
	// whatever the cadence.
	MinFloor []float64
	// APR is the starting annual rate in percent.
	APR float64
	// StepDownAPR is the annual rate, in percent, after the step-down.
	StepDownAPR float64
	// StepDownAfter is the number of applied payments after which the APR
	// steps down; 0 disables the step-down.
	StepDownAfter int
}

// BandTable is a validated, immutable band configuration. It is safe to share
// between goroutines.
type BandTable struct {
	boundaries      []float64
	minPrincipalPct []float64
	minFloor        []float64
	apr             float64
	stepDownAPR     float64
	stepDownAfter   int
}

// NewBandTable validates spec. Failures wrap errs.ErrConfiguration.
func NewBandTable(spec BandTableSpec) (*BandTable, error) {
	if len(spec.Boundaries) < 2 {
		return nil, errs.Configurationf("band table needs at least two boundaries, got %d", len(spec.Boundaries))
	}
	for i := 1; i < len(spec.Boundaries); i++ {
		if spec.Boundaries[i] <= spec.Boundaries[i-1] {
			return nil, errs.Configurationf("band boundaries %v must be strictly ascending", spec.Boundaries)
		}
	}
	bands := len(spec.Boundaries) - 1
	if len(spec.MinPrincipalPct) != bands {
		return nil, errs.Configurationf("expected %d minimum principal percentages, got %d", bands, len(spec.MinPrincipalPct))
	}
	if len(spec.MinFloor) != bands {
		return nil, errs.Configurationf("expected %d minimum payment floors, got %d", bands, len(spec.MinFloor))
	}
	for i := 0; i < bands; i++ {
		if spec.MinPrincipalPct[i] < 0 || spec.MinFloor[i] < 0 {
			return nil, errs.Configurationf("band %d minimum payment terms must not be negative", i)
		}
	}
	if spec.APR < 0 || spec.StepDownAPR < 0 {
		return nil, errs.Configurationf("APR must not be negative")
	}
	if spec.StepDownAfter < 0 {
		return nil, errs.Configurationf("step-down threshold must not be negative, got %d", spec.StepDownAfter)
	}

	return &BandTable{
		boundaries:      append([]float64(nil), spec.Boundaries...),
		minPrincipalPct: append([]float64(nil), spec.MinPrincipalPct...),
		minFloor:        append([]float64(nil), spec.MinFloor...),
		apr:             spec.APR,
		stepDownAPR:     spec.StepDownAPR,
		stepDownAfter:   spec.StepDownAfter,
	}, nil
}

// BandFor returns the band i with boundaries[i] <= balance < boundaries[i+1].
func (t *BandTable) BandFor(balance float64) (int, error) {
	// Index of the first boundary above balance; the band starts one before.
	i := sort.Search(len(t.boundaries), func(i int) bool { return t.boundaries[i] > balance }) - 1
	if i < 0 || i >= len(t.boundaries)-1 {
		return -1, errs.OutOfRangef("balance %.2f does not fit in a band %v", balance, t.boundaries)
	}
	return i, nil
}

// NumBands returns the number of bands.
func (t *BandTable) NumBands() int { return len(t.boundaries) - 1 }

// Boundaries returns a copy of the band edges.
func (t *BandTable) Boundaries() []float64 { return append([]float64(nil), t.boundaries...) }

// MinPrincipalPct returns the monthly minimum percentage of principal for band.
func (t *BandTable) MinPrincipalPct(band int) float64 { return t.minPrincipalPct[band] }

// MinFloor returns the minimum payment floor for band.
func (t *BandTable) MinFloor(band int) float64 { return t.minFloor[band] }

// APR returns the starting annual rate in percent.
func (t *BandTable) APR() float64 { return t.apr }

// StepDownAPR returns the stepped-down annual rate in percent.
func (t *BandTable) StepDownAPR() float64 { return t.stepDownAPR }

// StepDownAfter returns the payment count that triggers the step-down.
func (t *BandTable) StepDownAfter() int { return t.stepDownAfter }

// APRAfter returns the APR in force once paymentsMade payments are applied.
func (t *BandTable) APRAfter(paymentsMade int) float64 {
	if t.stepDownAfter > 0 && paymentsMade >= t.stepDownAfter {
		return t.stepDownAPR
	}
	return t.apr
}
