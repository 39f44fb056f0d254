package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"
	pongo2 "github.com/flosch/pongo2/v5"
	uuid "github.com/satori/go.uuid"

	"github.com/stojg/bestfit/leastsquares"
)

const defaultReport = `run:          {{ run_id }}
source:       {{ source }}
observations: {{ n }} ({{ skipped }} skipped)
fingerprint:  {{ fingerprint }}
slope:        {{ slope|stringformat:"%.6f" }}
intercept:    {{ intercept|stringformat:"%.6f" }}
r-squared:    {{ r_squared|stringformat:"%.4f" }}
sse:          {{ sse|stringformat:"%.4f" }}
`

type report struct {
	runID       string
	source      string
	n, skipped  int
	fingerprint uint64
	line        leastsquares.Line
	rSquared    float64
	sse         float64
}

func newReport(source string, obs *observations, skipped int, line leastsquares.Line) report {
	return report{
		runID:       uuid.NewV4().String(),
		source:      source,
		n:           obs.Len(),
		skipped:     skipped,
		fingerprint: fingerprint(obs),
		line:        line,
		rSquared:    leastsquares.RSquared(obs.x, obs.y, line),
		sse:         leastsquares.SSE(obs.x, obs.y, line),
	}
}

func (r report) context() pongo2.Context {
	return pongo2.Context{
		"run_id":       r.runID,
		"source":       r.source,
		"n":            r.n,
		"skipped":      r.skipped,
		"fingerprint":  fmt.Sprintf("%016x", r.fingerprint),
		"slope":        r.line.Slope,
		"intercept":    r.line.Intercept,
		"coefficients": r.line.Coefficients(),
		"r_squared":    r.rSquared,
		"sse":          r.sse,
	}
}

func (r report) render(w io.Writer, tpl string) error {
	t, err := pongo2.FromString(tpl)
	if err != nil {
		return fmt.Errorf("could not parse report template: %w", err)
	}
	return t.ExecuteWriter(r.context(), w)
}

// fingerprint hashes the pairs in order, so the same data always yields the
// same value.
func fingerprint(obs *observations) uint64 {
	d := xxhash.New()
	var buf [16]byte
	for i := range obs.x {
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(obs.x[i]))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(obs.y[i]))
		d.Write(buf[:])
	}
	return d.Sum64()
}
