package assistant

import (
	"fmt"
	"time"
	_ "time/tzdata" // Europe/Berlin must resolve on hosts without zoneinfo

	"github.com/abhisek/learnassist/internal/llm"
)

// TimestampLayout is the format of Message.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

var berlin = mustLoadLocation("Europe/Berlin")

// now is replaced in tests.
var now = time.Now

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load %s: %v", name, err))
	}
	return loc
}

// Message is one entry of the conversation history.
type Message struct {
	Role      llm.Role `json:"role"`
	Content   string   `json:"content"`
	Timestamp string   `json:"timestamp"`
}

// NewMessage creates a Message stamped with the current Europe/Berlin time.
func NewMessage(role llm.Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: now().In(berlin).Format(TimestampLayout),
	}
}

// Prep returns the message in the form sent to the provider.
func (m Message) Prep() llm.Message {
	return llm.Message{Role: m.Role, Content: m.Content}
}

func (m Message) String() string {
	return fmt.Sprintf("Message(role=%q, content=%q, timestamp=%q)", m.Role, m.Content, m.Timestamp)
}
