package anthropic

const (
	ModelClaudeHaiku35 = "claude-3-5-haiku-latest"

	ModelClaudeHaiku45  = "claude-haiku-4-5"
	ModelClaudeSonnet45 = "claude-sonnet-4-5"
	ModelClaudeOpus45   = "claude-opus-4-5"
)
