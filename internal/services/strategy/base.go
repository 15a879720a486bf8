// Package strategy holds the pattern detectors and their static registry.
package strategy

import (
	"fmt"

	"SharkScan/internal/domain/models"
)

// maxSignals caps how many of the most recent matches a detector reports.
const maxSignals = 3

func newResult(name string, inputs map[string]float64, series models.Series) models.DetectorResult {
	return models.DetectorResult{
		Signals: []models.Signal{},
		Meta: models.Meta{
			Strategy: name,
			Inputs:   inputs,
			Candles:  len(series),
		},
	}
}

// reject marks res as failed validation. It is never an exception: callers
// get empty signals and a reason.
func reject(res *models.DetectorResult, err error) models.DetectorResult {
	res.Signals = []models.Signal{}
	res.Meta.Count = 0
	res.Meta.Error = err.Error()
	res.Meta.ErrorKind = models.ErrorKindValidation
	res.Meta.Notes = []string{"insufficient data: " + err.Error()}
	return *res
}

// finish keeps the last maxSignals matches and attaches notes when nothing matched.
func finish(res *models.DetectorResult, matches []models.Signal, notes []string) models.DetectorResult {
	if len(matches) > maxSignals {
		matches = matches[len(matches)-maxSignals:]
	}
	res.Signals = append(make([]models.Signal, 0, len(matches)), matches...)
	res.Meta.Count = len(res.Signals)
	if res.Meta.Count == 0 {
		res.Meta.Notes = append([]string(nil), notes...)
	}
	return *res
}

// recoverInto converts a panic inside a detector into an error result.
func recoverInto(res *models.DetectorResult) {
	if r := recover(); r != nil {
		res.Signals = []models.Signal{}
		res.Meta.Count = 0
		res.Meta.Error = fmt.Sprintf("detector panic: %v", r)
		res.Meta.ErrorKind = models.ErrorKindComputation
	}
}

func positiveInt(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("parameter %s must be positive, got %d", name, v)
	}
	return nil
}

func positiveFloat(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("parameter %s must be positive, got %g", name, v)
	}
	return nil
}

func maxInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
