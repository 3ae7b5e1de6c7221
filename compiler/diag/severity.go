package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevWarning is advisory and never blocks emission.
	SevWarning Severity = iota + 1
	// SevError suppresses the output of the type it is attributed to.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
