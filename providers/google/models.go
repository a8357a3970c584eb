package google

const (
	ModelGemini25Pro         = "gemini-2.5-pro"
	ModelGemini25Flash       = "gemini-2.5-flash"
	ModelGemini25FlashLite   = "gemini-2.5-flash-lite"
	ModelGemini3FlashPreview = "gemini-3-flash-preview"
)
