package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// transcribePrompt asks the model to behave like a document-text OCR
// endpoint: return the raw text only, one line per printed line, so the
// parser downstream sees the same shape a classic vision API would give.
const transcribePrompt = `Transcribe ALL text visible in this invoice or receipt image.
Return ONLY the transcribed text, preserving the original line breaks.
Do not add commentary, formatting, markdown, or explanations.`

// VisionService holds the Gemini client used for invoice OCR.
type VisionService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewVisionService initializes the Gemini client.
func NewVisionService(apiKey string, modelName string) (*VisionService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash" // Fallback default
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &VisionService{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// ExtractText runs OCR on an uploaded invoice image and returns the raw
// extracted text. format is the image suffix ("png", "jpeg", "gif").
func (s *VisionService) ExtractText(ctx context.Context, imageData []byte, format string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	parts := []genai.Part{
		genai.ImageData(format, imageData),
		genai.Text(transcribePrompt),
	}

	resp, err := s.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from vision model")
	}

	// Concatenate all text parts of the first candidate.
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	text := strings.TrimSpace(sb.String())
	// The model occasionally wraps output in a code fence despite the prompt.
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	return strings.TrimSpace(text), nil
}

// Close closes the underlying Gemini client.
func (s *VisionService) Close() error {
	return s.client.Close()
}
