package groq

const (
	ModelGPTOSS120b             = "openai/gpt-oss-120b"
	ModelGPTOSS20b              = "openai/gpt-oss-20b"
	ModelLlama3370bVersatile    = "llama-3.3-70b-versatile"
	ModelLlama318bInstant       = "llama-3.1-8b-instant"
	ModelLlama4Scout            = "meta-llama/llama-4-scout-17b-16e-instruct"
	ModelQwen332b               = "qwen/qwen3-32b"
	ModelKimiK2Instruct         = "moonshotai/kimi-k2-instruct"
	ModelDeepSeekR1DistillLlama = "deepseek-r1-distill-llama-70b"
)
