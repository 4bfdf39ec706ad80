package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farejo/internal/models"

	"google.golang.org/genai"
)

var ErrEmptyGeneration = errors.New("model returned an empty description")

// TextGenerator produces text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API through the genai SDK.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return resp.Text(), nil
}

// DescriptionDraft is the part of the submission form the description is written from.
type DescriptionDraft struct {
	Status       models.Status `json:"status"`
	Name         string        `json:"name"`
	Breed        string        `json:"breed"`
	Color        string        `json:"color"`
	Size         models.Size   `json:"size"`
	Gender       models.Gender `json:"gender"`
	Age          string        `json:"age"`
	City         string        `json:"city"`
	Neighborhood string        `json:"neighborhood"`
	Behavior     string        `json:"behavior"`
	Collar       string        `json:"collar"`
}

type LLMService struct {
	generator TextGenerator
	timeout   time.Duration
}

// NewLLMService wraps generator. With a nil generator descriptions are
// assembled from a fixed template so the form still works offline.
func NewLLMService(generator TextGenerator) *LLMService {
	return &LLMService{generator: generator, timeout: 20 * time.Second}
}

// Enabled reports whether a real model is configured.
func (s *LLMService) Enabled() bool {
	return s.generator != nil
}

// GenerateDescription drafts the free-text description. There is no retry;
// callers surface the error as a notice and keep the form as it was.
func (s *LLMService) GenerateDescription(ctx context.Context, d DescriptionDraft) (string, error) {
	if s.generator == nil {
		return templateDescription(d), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generator.GenerateText(ctx, buildPrompt(d))
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyGeneration
	}
	return text, nil
}

func buildPrompt(d DescriptionDraft) string {
	var b strings.Builder
	if d.Status == models.StatusFound {
		b.WriteString("Escreva uma descrição curta e objetiva (até 4 frases, em português do Brasil) para um anúncio de cachorro ENCONTRADO.\n")
	} else {
		b.WriteString("Escreva uma descrição curta e objetiva (até 4 frases, em português do Brasil) para um anúncio de cachorro PERDIDO.\n")
	}
	b.WriteString("Use apenas os dados abaixo, sem inventar detalhes, sem telefone e sem emojis.\n\n")

	field := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fmt.Fprintf(&b, "- %s: %s\n", label, value)
		}
	}
	field("Nome", d.Name)
	field("Raça", d.Breed)
	field("Cor", d.Color)
	field("Porte", string(d.Size))
	field("Sexo", string(d.Gender))
	field("Idade", d.Age)
	field("Bairro", d.Neighborhood)
	field("Cidade", d.City)
	field("Comportamento", d.Behavior)
	field("Coleira", d.Collar)
	return b.String()
}

func templateDescription(d DescriptionDraft) string {
	subject := "Cachorro"
	if d.Name != "" {
		subject = d.Name
	}
	var parts []string
	for _, p := range []string{d.Breed, strings.ToLower(d.Color), strings.ToLower(string(d.Size))} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	verb := "desapareceu"
	if d.Status == models.StatusFound {
		verb = "foi encontrado"
	}
	place := strings.TrimSpace(strings.Join(nonEmpty(d.Neighborhood, d.City), ", "))

	var b strings.Builder
	b.WriteString(subject)
	if len(parts) > 0 {
		b.WriteString(" (" + strings.Join(parts, ", ") + ")")
	}
	b.WriteString(" " + verb)
	if place != "" {
		b.WriteString(" em " + place)
	}
	b.WriteString(".")
	if d.Collar != "" {
		b.WriteString(" Coleira: " + d.Collar + ".")
	}
	if d.Behavior != "" {
		b.WriteString(" " + d.Behavior + ".")
	}
	b.WriteString(" Qualquer informação ajuda!")
	return b.String()
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
