package toast

import "strings"

// Severity classifies a toast and selects its icon and color.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// DefaultSeverity is used when Notify is called without a severity.
const DefaultSeverity = SeveritySuccess

// Presentation is the visual treatment of a severity.
type Presentation struct {
	Icon  string // font-awesome icon name without the "fa-" prefix
	Color string
	Hex   string
}

// Presentation returns the icon and color for s.
// Unrecognized severities get the info treatment.
func (s Severity) Presentation() Presentation {
	switch s {
	case SeveritySuccess:
		return Presentation{Icon: "check-circle", Color: "green", Hex: "#48bb78"}
	case SeverityError:
		return Presentation{Icon: "exclamation-triangle", Color: "red", Hex: "#f56565"}
	case SeverityWarning:
		return Presentation{Icon: "exclamation-circle", Color: "orange", Hex: "#ed8936"}
	default:
		return Presentation{Icon: "info-circle", Color: "blue", Hex: "#4299e1"}
	}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeveritySuccess, SeverityError, SeverityInfo, SeverityWarning:
		return true
	}
	return false
}

// Normalize maps unknown severities to info.
func (s Severity) Normalize() Severity {
	if s.Valid() {
		return s
	}
	return SeverityInfo
}

func (s Severity) String() string {
	return string(s)
}

// ParseSeverity reads a severity from user input. An empty string yields the
// default severity; any other unknown value yields info.
func ParseSeverity(raw string) Severity {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return DefaultSeverity
	}
	return Severity(raw).Normalize()
}
