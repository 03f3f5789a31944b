package reporting

// InterpretScore returns a plain-language label for a score in [0, 1].
func InterpretScore(score float64) string {
	pct := score * 100
	switch {
	case pct > 90:
		return "Excellent (>90%)"
	case pct >= 70:
		return "Good (70-90%)"
	case pct >= 50:
		return "Fair (50-70%)"
	default:
		return "Weak (<50%)"
	}
}
