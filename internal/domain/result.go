package domain

import "time"

// Operation identifies one of the four benchmark phases
type Operation string

// Benchmark operations, in phase order
const (
	OperationCreate Operation = "create"
	OperationRead   Operation = "read"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Operations lists the four phases in execution order
var Operations = []Operation{OperationCreate, OperationRead, OperationUpdate, OperationDelete}

// PhaseResult holds the wall-clock duration of one benchmark phase
type PhaseResult struct {
	Operation Operation     `json:"operation"`
	Duration  time.Duration `json:"duration"`
}

// Seconds returns the phase duration in seconds
func (p PhaseResult) Seconds() float64 {
	return p.Duration.Seconds()
}

// RunResult aggregates the phase timings of one benchmark run
type RunResult struct {
	Provider   string                    `json:"provider"`
	DataPoints int                       `json:"data_points"`
	Workers    int                       `json:"workers"`
	Phases     map[Operation]PhaseResult `json:"phases"`
}

// NewRunResult creates an empty run result for a provider variant
func NewRunResult(provider string, dataPoints, workers int) *RunResult {
	return &RunResult{
		Provider:   provider,
		DataPoints: dataPoints,
		Workers:    workers,
		Phases:     make(map[Operation]PhaseResult, len(Operations)),
	}
}

// Record stores the duration of a completed phase
func (r *RunResult) Record(op Operation, d time.Duration) {
	r.Phases[op] = PhaseResult{Operation: op, Duration: d}
}

// Total returns the summed duration of all recorded phases
func (r *RunResult) Total() time.Duration {
	var total time.Duration
	for _, p := range r.Phases {
		total += p.Duration
	}
	return total
}
