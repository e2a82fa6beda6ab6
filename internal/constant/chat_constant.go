package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

// Fixed conversational copy. The assistant seeds every fresh session with
// GreetingMessage and re-seeds with DocumentRemovedMessage after a removal.
const (
	GreetingMessage        = "Hello! Please upload a PDF file so I can analyze it for you."
	DocumentRemovedMessage = "File removed. Please upload a new file."

	// DocumentReadyMessageFormat takes the uploaded file name.
	DocumentReadyMessageFormat = `Great! I've read "%s". You can now ask questions related to this document.`
)

// Inline (banner-level) error copy. These land in the session's LastError
// field, never in the conversation itself.
const (
	ErrMsgInvalidFileType  = "Only PDF files are allowed."
	ErrMsgExtractionFailed = "Error reading the PDF. It might be encrypted or corrupted."
	ErrMsgDocumentRequired = "Please upload a PDF first."
	ErrMsgSessionBusy      = "Please wait for the current operation to finish."
)

// Answer-level fallback copy. Failures of the answer service are converted
// into assistant chat bubbles with these texts, keeping the conversation
// alive instead of raising a banner.
const (
	FallbackNoCandidate  = "Sorry, I couldn't understand that."
	FallbackServiceError = "Error connecting to the API. Please try again."
)

// AnswerSystemPrompt pins the model to the uploaded document.
const AnswerSystemPrompt = "You are a helpful assistant. Answer the user's question strictly based on the provided PDF Context. If the answer is not in the context, say you don't know based on the document. Keep answers concise and helpful."

// AnswerPromptFormat takes the (already truncated) PDF context and the
// verbatim user question.
const AnswerPromptFormat = "PDF Context:\n%s\n\nUser Question: %s"
