package downloader

// State is the lifecycle of one transfer:
// Idle -> Connecting -> Streaming -> Complete, with Failed reachable from
// Connecting and Streaming.
type State int

const (
	Idle State = iota
	Connecting
	Streaming
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Streaming:
		return "streaming"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transitions can follow s.
func (s State) Terminal() bool { return s == Complete || s == Failed }
