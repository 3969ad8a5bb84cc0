package runtime

// AsFloat widens an Integer or Float to a float64. The second result is
// false if v is not numeric.
func AsFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Integer:
		return float64(n), true
	case Float:
		return float64(n), true
	default:
		return 0, false
	}
}

// IsNumeric reports whether v is an Integer or Float.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case Integer, Float:
		return true
	default:
		return false
	}
}

// IsInteger reports whether v is specifically an Integer (not Float).
func IsInteger(v Value) bool {
	_, ok := v.(Integer)
	return ok
}
