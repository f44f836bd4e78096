package flow

// EventKind classifies an incoming user interaction.
type EventKind int

const (
	EventCommand EventKind = iota + 1
	EventButton
	EventText
	EventFile
)

func (k EventKind) String() string {
	switch k {
	case EventCommand:
		return "command"
	case EventButton:
		return "button"
	case EventText:
		return "text"
	case EventFile:
		return "file"
	}
	return "unknown"
}

// Attachment describes a file the user sent; the reference is opaque to the machine.
type Attachment struct {
	Reference string
	FileName  string
	MediaType string
}

// Event is one interaction from a single user.
type Event struct {
	UserID  int64
	Kind    EventKind
	Command string
	Key     string
	Payload string
	Text    string
	File    Attachment
}

// Command builds a slash-command event. The name may carry the leading slash.
func Command(userID int64, name string) Event {
	return Event{UserID: userID, Kind: EventCommand, Command: name}
}

// Button builds a button press event.
func Button(userID int64, key, payload string) Event {
	return Event{UserID: userID, Kind: EventButton, Key: key, Payload: payload}
}

// Text builds a free-text event.
func Text(userID int64, text string) Event {
	return Event{UserID: userID, Kind: EventText, Text: text}
}

// File builds a file attachment event.
func File(userID int64, att Attachment) Event {
	return Event{UserID: userID, Kind: EventFile, File: att}
}
