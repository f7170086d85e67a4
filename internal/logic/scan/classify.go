package scan

// Verdicts with a meaning of their own. Every other text is a name.
const (
	UnknownVerdict   = "UNKNOWN"
	TimeLimitVerdict = "TIME LIMIT REACHED"
)

// Classify maps a verdict text to an outcome. The vocabulary belongs to the
// classifier: apart from the two sentinels, any text (even "") is taken as
// an identification. Matching is exact.
func Classify(verdict string) Outcome {
	switch verdict {
	case UnknownVerdict:
		return Outcome{Kind: Unknown}
	case TimeLimitVerdict:
		return Outcome{Kind: TimeLimitReached}
	default:
		return Outcome{Kind: Identified, Verdict: verdict}
	}
}
