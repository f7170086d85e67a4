package scan

// Kind enumerates the closed set of cycle results.
type Kind int

const (
	Identified Kind = iota
	Unknown
	TimeLimitReached
	ServerUnreachable
	CaptureDeviceReinitFailed
	CaptureFailed
)

func (k Kind) String() string {
	switch k {
	case Identified:
		return "identified"
	case Unknown:
		return "unknown"
	case TimeLimitReached:
		return "time_limit_reached"
	case ServerUnreachable:
		return "server_unreachable"
	case CaptureDeviceReinitFailed:
		return "camera_reinit_failed"
	case CaptureFailed:
		return "capture_failed"
	default:
		return "invalid"
	}
}

// Outcome is the single result of one cycle. Verdict is only set for
// Identified and holds the classifier's text verbatim.
type Outcome struct {
	Kind    Kind
	Verdict string
}

// Detail returns the text worth showing for the outcome.
func (o Outcome) Detail() string {
	switch o.Kind {
	case Identified:
		return o.Verdict
	case Unknown:
		return UnknownVerdict
	case TimeLimitReached:
		return TimeLimitVerdict
	default:
		return ""
	}
}

func (o Outcome) String() string {
	if o.Kind == Identified {
		return o.Kind.String() + "(" + o.Verdict + ")"
	}
	return o.Kind.String()
}
