package ai

// System prompts shared across all providers.

const systemPromptLiturgy = "Kamu adalah asisten AI yang menganalisis data liturgi ibadah GKIN " +
	"dan menjawab dalam bahasa Indonesia yang jelas, terstruktur, dan mudah dimengerti " +
	"oleh tim liturgi maupun jemaat."

// Placeholder answers shown instead of an error.
const (
	PlaceholderEmpty     = "(Model tidak mengembalikan jawaban teks.)"
	placeholderTransport = "Terjadi kesalahan saat memanggil model AI: "
)
