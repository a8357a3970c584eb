package llm

// Role indicates the role of a message in a conversation. Either "user",
// "assistant", or "system".
type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"
)

func (r Role) String() string {
	return string(r)
}

// Message is a single text message sent to the model.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// NewUserMessage returns a user message containing the given text.
func NewUserMessage(text string) *Message {
	return &Message{Role: User, Text: text}
}

// NewSystemMessage returns a system message containing the given text.
func NewSystemMessage(text string) *Message {
	return &Message{Role: System, Text: text}
}
