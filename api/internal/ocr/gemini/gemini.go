package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"digit-ocr/api/internal/ocr"
	"digit-ocr/api/internal/util"
)

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Recognize asks the model to transcribe only the whitelisted characters.
func (e *Engine) Recognize(ctx context.Context, image []byte, opt ocr.Options) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0),
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt(opt))},
	}

	parts := []genai.Part{
		genai.Text("Transcribe the characters in this image."),
		genai.Blob{MIMEType: util.SniffMimeHTTP(image), Data: image},
	}
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	txt := firstText(resp)
	if txt == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return strings.TrimSpace(txt), nil
}

func systemPrompt(opt ocr.Options) string {
	var b strings.Builder
	b.WriteString("You are an OCR engine. Read the text in the image in reading order.")
	if lang := languageName(opt.Language); lang != "" {
		fmt.Fprintf(&b, " The text is in %s.", lang)
	}
	if opt.Whitelist != "" {
		fmt.Fprintf(&b, " Output only characters from the set %q, nothing else.", opt.Whitelist)
	}
	b.WriteString(" Do not explain, do not add punctuation or formatting.")
	return b.String()
}

// languageName maps tesseract language codes to names the model understands.
func languageName(code string) string {
	switch strings.ToLower(code) {
	case "":
		return ""
	case "eng":
		return "English"
	case "rus":
		return "Russian"
	case "deu":
		return "German"
	case "fra":
		return "French"
	default:
		return code
	}
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
