package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	// DefaultChatTitleLength bounds the title derived from the first message.
	DefaultChatTitleLength = 80
)
