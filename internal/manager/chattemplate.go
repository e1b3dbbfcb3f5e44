package manager

import "strings"

// ChatMLStop ends an assistant turn in ChatML-formatted models (Qwen and
// most GGUF chat exports).
const ChatMLStop = "<|im_end|>"

// RenderChatML flattens messages into a ChatML prompt ending with an open
// assistant turn.
func RenderChatML(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		role := m.Role
		if role == "" {
			role = RoleUser
		}
		b.WriteString("<|im_start|>")
		b.WriteString(role)
		b.WriteByte('\n')
		b.WriteString(m.Content)
		b.WriteString(ChatMLStop)
		b.WriteByte('\n')
	}
	b.WriteString("<|im_start|>assistant\n")
	return b.String()
}
