package linesheet

import "errors"

// Error taxonomy for generation requests. Configuration and serialization
// failures abort the request; asset and per-product failures are recovered
// locally and never surface here.
var (
	// ErrTemplate marks a missing, unreadable, or layout-drifted template.
	ErrTemplate = errors.New("linesheet: template error")

	// ErrUpstream marks a commerce data source failure. The generator never
	// fabricates data to mask it.
	ErrUpstream = errors.New("linesheet: upstream data error")

	// ErrSerialize marks a workbook serialization failure that persisted
	// through the formula-stripping retry.
	ErrSerialize = errors.New("linesheet: workbook serialization error")
)
