// Package arbiter decides whether a confidence value clears a call-site
// threshold. Thresholds are passed in by each caller; there is no global one.
package arbiter

// Default thresholds for the three call sites.
const (
	// LocalThreshold gates returning the local classifier's result without
	// consulting the remote adapter.
	LocalThreshold = 15.0
	// ReportThreshold sets isConfident on the detect endpoint.
	ReportThreshold = 70.0
	// ScanThreshold sets isConfident on the scan history endpoint.
	ScanThreshold = 50.0
)

// ShouldUseLocal reports whether a local prediction is trustworthy enough
// to return as is. A confidence exactly at the threshold passes.
func ShouldUseLocal(confidence, threshold float64) bool {
	return confidence >= threshold
}

// IsConfident reports whether a normalized confidence clears threshold.
func IsConfident(confidence, threshold float64) bool {
	return confidence >= threshold
}

// Thresholds groups the per-call-site values.
type Thresholds struct {
	Local  float64
	Report float64
	Scan   float64
}

// Defaults returns the thresholds used when none are configured.
func Defaults() Thresholds {
	return Thresholds{Local: LocalThreshold, Report: ReportThreshold, Scan: ScanThreshold}
}
