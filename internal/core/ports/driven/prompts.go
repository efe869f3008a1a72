package driven

// PromptStore provides access to generation prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name, falling back
	// to the built-in default when no override exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names. Templates use {context}, {question}, {chat}
// and {materials} placeholders.
const (
	// PromptAnswer grounds an answer in the context bundle.
	// Placeholders: {context}, {question}.
	PromptAnswer = "answer"

	// PromptSummary summarises a discussion and its materials.
	// Placeholders: {chat}, {materials}.
	PromptSummary = "summary"
)
