package analysis

// Kind selects which computation strategy the calculator runs
type Kind string

const (
	KindStatistical Kind = "statistical"
	KindTrend       Kind = "trend"
	KindAnomaly     Kind = "anomaly"
	KindDefault     Kind = "default"
)

// ParseKind maps a raw selector to a Kind. Unrecognized or empty values
// resolve to KindDefault so dispatch stays total.
func ParseKind(raw string) Kind {
	switch Kind(raw) {
	case KindStatistical, KindTrend, KindAnomaly:
		return Kind(raw)
	default:
		return KindDefault
	}
}

// Valid reports whether k is one of the closed set of kinds
func (k Kind) Valid() bool {
	switch k {
	case KindStatistical, KindTrend, KindAnomaly, KindDefault:
		return true
	}
	return false
}
