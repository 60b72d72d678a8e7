// Package quote turns fair values and market state into bounded
// two-sided quotes.
package quote

// Side is one side of a binary market.
type Side int

const (
	SideYes Side = iota
	SideNo
)

func (s Side) String() string {
	switch s {
	case SideYes:
		return "yes"
	case SideNo:
		return "no"
	default:
		return "unknown"
	}
}
