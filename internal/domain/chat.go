package domain

// Sender identifies which side of the chat produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ChatMessage is one entry in a session's ordered log. Insertion order is the
// ordering key; messages carry no timestamp of their own.
type ChatMessage struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// CaptureState tracks the hold-to-speak voice button.
type CaptureState string

const (
	CaptureIdle      CaptureState = "idle"
	CaptureListening CaptureState = "listening"
)
