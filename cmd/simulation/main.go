package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api/chat/v1"

// Simplified DTOs for the script
type CreateSessionResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type UploadResponse struct {
	Data struct {
		FileName     string `json:"file_name"`
		PageMarkers  int    `json:"page_markers"`
		Confirmation struct {
			Text string `json:"text"`
		} `json:"confirmation"`
	} `json:"data"`
}

type SendChatRequest struct {
	Chat string `json:"chat"`
}

type SendChatResponse struct {
	Data struct {
		Reply struct {
			Text string `json:"text"`
		} `json:"reply"`
	} `json:"data"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <document.pdf> [question ...]", os.Args[0])
	}
	pdfPath := os.Args[1]

	questions := os.Args[2:]
	if len(questions) == 0 {
		questions = []string{"What is this document about?"}
	}

	bot := color.New(color.FgGreen)
	user := color.New(color.FgCyan)

	fmt.Println("=== PDF Chat Simulation Client ===")

	sessionID, err := createSession()
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	fmt.Printf("Session Created: %s\n", sessionID)

	upload, err := uploadDocument(sessionID, pdfPath)
	if err != nil {
		log.Fatalf("Failed to upload document: %v", err)
	}
	bot.Printf("BOT: %s (%d pages)\n", upload.Data.Confirmation.Text, upload.Data.PageMarkers)

	for _, q := range questions {
		user.Printf("\nUSER: %s\n", q)

		start := time.Now()
		reply, err := sendChat(sessionID, q)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		bot.Printf("BOT (%v): %s\n", elapsed.Round(time.Millisecond), reply)
	}
}

func createSession() (string, error) {
	res, err := http.Post(baseURL+"/session", "application/json", nil)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	var parsed CreateSessionResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Data.ID, nil
}

func uploadDocument(sessionID, path string) (*UploadResponse, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(path)))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(fileBytes); err != nil {
		return nil, err
	}
	writer.Close()

	res, err := http.Post(
		fmt.Sprintf("%s/session/%s/document", baseURL, sessionID),
		writer.FormDataContentType(),
		&body,
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload rejected (%d): %s", res.StatusCode, string(raw))
	}

	var parsed UploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func sendChat(sessionID, chat string) (string, error) {
	payload, err := json.Marshal(SendChatRequest{Chat: chat})
	if err != nil {
		return "", err
	}

	res, err := http.Post(
		fmt.Sprintf("%s/session/%s/chat", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(payload),
	)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat rejected (%d): %s", res.StatusCode, string(raw))
	}

	var parsed SendChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	return parsed.Data.Reply.Text, nil
}
