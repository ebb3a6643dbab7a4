package editor

import "fmt"

// EventKind identifies a session notification.
type EventKind int

const (
	// EventImageLoaded follows a successful Load or Install.
	EventImageLoaded EventKind = iota
	// EventExportProduced follows a successful Export. Name holds the
	// suggested filename.
	EventExportProduced
	// EventHistoryChanged follows every commit, undo and redo.
	EventHistoryChanged
	// EventDisplayChanged means the host should repaint.
	EventDisplayChanged
	// EventColorPicked follows an eyedropper sample.
	EventColorPicked
)

func (k EventKind) String() string {
	switch k {
	case EventImageLoaded:
		return "image-loaded"
	case EventExportProduced:
		return "export-produced"
	case EventHistoryChanged:
		return "history-changed"
	case EventDisplayChanged:
		return "display-changed"
	case EventColorPicked:
		return "color-picked"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is delivered synchronously to every registered Listener.
type Event struct {
	Kind EventKind
	Name string
}

// Listener receives session notifications.
type Listener func(Event)

// Subscribe adds a listener after creation.
func (s *Session) Subscribe(l Listener) {
	if l != nil {
		s.listener = append(s.listener, l)
	}
}

func (s *Session) emit(e Event) {
	for _, l := range s.listener {
		l(e)
	}
}
