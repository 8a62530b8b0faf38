package diag

// Severity ranks how much a diagnostic should worry the caller. Ordering is
// meaningful: Bag.HasErrors and Bag.HasWarnings compare against it.
type Severity uint8

const (
	// SevInfo reports something worth knowing, like a file emitted verbatim.
	SevInfo Severity = iota
	// SevWarning reports degraded output, like a dropped edit request.
	SevWarning
	// SevError reports a failure of the run itself.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
