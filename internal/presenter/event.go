package presenter

// EventKind identifies a presenter event.
type EventKind int

const (
	EventAvatarLoaded EventKind = iota + 1
	EventAvatarLoadFailed
)

func (k EventKind) String() string {
	switch k {
	case EventAvatarLoaded:
		return "avatar-loaded"
	case EventAvatarLoadFailed:
		return "avatar-load-failed"
	default:
		return "unknown"
	}
}

// Event is emitted to the host from Tick.
type Event struct {
	Kind     EventKind
	AvatarID string
	Reason   string // set for EventAvatarLoadFailed
	Err      error
}
