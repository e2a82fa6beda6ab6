package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-chatbot-be/internal/constant"
)

func candidateResponse(text string) GeminiChatResponse {
	return GeminiChatResponse{
		Candidates: []*GeminiChatCandidate{
			{Content: &GeminiChatContent{Parts: []*GeminiChatParts{{Text: text}}}},
		},
	}
}

func TestAnswerReturnsFirstCandidateText(t *testing.T) {
	var gotPath, gotKey string
	var gotReq GeminiChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(candidateResponse("The report covers Q3 revenue."))
	}))
	defer server.Close()

	bot := NewGeminiChatbot("test-key", "gemini-test", WithBaseURL(server.URL))
	answer := bot.Answer(context.Background(), "What does the report cover?", "Page 1: quarterly revenue numbers")

	assert.Equal(t, "The report covers Q3 revenue.", answer)
	assert.Equal(t, "/models/gemini-test:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	// One combined prompt: instruction as systemInstruction, context plus
	// verbatim question in the single content part.
	require.NotNil(t, gotReq.SystemInstruction)
	assert.Equal(t, constant.AnswerSystemPrompt, gotReq.SystemInstruction.Parts[0].Text)
	require.Len(t, gotReq.Contents, 1)
	prompt := gotReq.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "Page 1: quarterly revenue numbers")
	assert.Contains(t, prompt, "User Question: What does the report cover?")
}

func TestAnswerTruncatesContextToPrefix(t *testing.T) {
	var gotReq GeminiChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(candidateResponse("ok"))
	}))
	defer server.Close()

	longContext := strings.Repeat("a", MaxContextChars) + "OVERFLOW"

	bot := NewGeminiChatbot("k", "m", WithBaseURL(server.URL))
	bot.Answer(context.Background(), "q", longContext)

	prompt := gotReq.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, strings.Repeat("a", MaxContextChars))
	assert.NotContains(t, prompt, "OVERFLOW")
}

func TestAnswerFallsBackOnEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GeminiChatResponse{})
	}))
	defer server.Close()

	bot := NewGeminiChatbot("k", "m", WithBaseURL(server.URL))
	answer := bot.Answer(context.Background(), "q", "ctx")

	assert.Equal(t, constant.FallbackNoCandidate, answer)
}

func TestAnswerFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	bot := NewGeminiChatbot("k", "m", WithBaseURL(server.URL))
	answer := bot.Answer(context.Background(), "q", "ctx")

	assert.Equal(t, constant.FallbackServiceError, answer)
}

func TestAnswerFallsBackOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	bot := NewGeminiChatbot("k", "m", WithBaseURL(server.URL))
	answer := bot.Answer(context.Background(), "q", "ctx")

	assert.Equal(t, constant.FallbackServiceError, answer)
}

func TestTruncateContext(t *testing.T) {
	assert.Equal(t, "short", TruncateContext("short"))

	exact := strings.Repeat("x", MaxContextChars)
	assert.Equal(t, exact, TruncateContext(exact))

	over := exact + "tail"
	assert.Equal(t, exact, TruncateContext(over))

	// Rune-based cut: multi-byte characters are never split.
	wide := strings.Repeat("日", MaxContextChars+10)
	cut := TruncateContext(wide)
	assert.Equal(t, MaxContextChars, len([]rune(cut)))
	assert.Equal(t, strings.Repeat("日", MaxContextChars), cut)
}

func TestFirstCandidateText(t *testing.T) {
	res := candidateResponse("hi")
	assert.Equal(t, "hi", FirstCandidateText(&res))

	empty := GeminiChatResponse{}
	assert.Equal(t, constant.FallbackNoCandidate, FirstCandidateText(&empty))

	noParts := GeminiChatResponse{Candidates: []*GeminiChatCandidate{{Content: &GeminiChatContent{}}}}
	assert.Equal(t, constant.FallbackNoCandidate, FirstCandidateText(&noParts))
}
