package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pdf-chatbot-be/internal/constant"
)

// MaxContextChars bounds the document context sent with every question.
// The cut is a plain prefix; no chunking or relevance ranking happens here.
const MaxContextChars = 30000

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Answerer produces an answer for a question grounded on the given document
// context. It never fails past its own boundary: every transport or decode
// problem is converted into a displayable answer string.
type Answerer interface {
	Answer(ctx context.Context, question, documentContext string) string
}

type GeminiChatParts struct {
	Text string `json:"text"`
}

type GeminiChatContent struct {
	Parts []*GeminiChatParts `json:"parts"`
}

type GeminiChatRequest struct {
	Contents          []*GeminiChatContent `json:"contents"`
	SystemInstruction *GeminiChatContent   `json:"systemInstruction,omitempty"`
}

type GeminiChatCandidate struct {
	Content *GeminiChatContent `json:"content"`
}

type GeminiChatResponse struct {
	Candidates []*GeminiChatCandidate `json:"candidates"`
}

// GeminiChatbot implements Answerer against the generativelanguage
// generateContent endpoint.
type GeminiChatbot struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type Option func(*GeminiChatbot)

// WithBaseURL overrides the API host, used by tests.
func WithBaseURL(u string) Option {
	return func(c *GeminiChatbot) { c.baseURL = u }
}

// WithTimeout bounds a single answer request. The upstream has no timeout of
// its own and a hung request would pin the session's awaiting flag forever.
func WithTimeout(d time.Duration) Option {
	return func(c *GeminiChatbot) { c.client.Timeout = d }
}

func NewGeminiChatbot(apiKey, model string, opts ...Option) *GeminiChatbot {
	c := &GeminiChatbot{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Answer builds a single combined prompt from the system instruction, the
// truncated context and the verbatim question, sends one generateContent
// request and returns the first candidate's text. Failures come back as the
// fixed fallback strings, never as errors.
func (c *GeminiChatbot) Answer(ctx context.Context, question, documentContext string) string {
	prompt := fmt.Sprintf(constant.AnswerPromptFormat, TruncateContext(documentContext), question)

	payload := GeminiChatRequest{
		Contents: []*GeminiChatContent{
			{Parts: []*GeminiChatParts{{Text: prompt}}},
		},
		SystemInstruction: &GeminiChatContent{
			Parts: []*GeminiChatParts{{Text: constant.AnswerSystemPrompt}},
		},
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return constant.FallbackServiceError
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return constant.FallbackServiceError
	}

	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return constant.FallbackServiceError
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return constant.FallbackServiceError
	}

	if res.StatusCode != http.StatusOK {
		return constant.FallbackServiceError
	}

	var geminiRes GeminiChatResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return constant.FallbackNoCandidate
	}

	return FirstCandidateText(&geminiRes)
}

// TruncateContext takes the leading MaxContextChars characters of the
// context, verbatim. Rune-based so a multi-byte character is never split.
func TruncateContext(documentContext string) string {
	runes := []rune(documentContext)
	if len(runes) <= MaxContextChars {
		return documentContext
	}
	return string(runes[:MaxContextChars])
}

// FirstCandidateText reads candidates[0].content.parts[0].text, falling back
// to the fixed string when the response carries no usable candidate.
func FirstCandidateText(res *GeminiChatResponse) string {
	if len(res.Candidates) == 0 {
		return constant.FallbackNoCandidate
	}
	content := res.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0].Text == "" {
		return constant.FallbackNoCandidate
	}
	return content.Parts[0].Text
}
