package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/jobkit/jobkit/internal/config"
	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/pkg/logger"
	"github.com/jobkit/jobkit/pkg/response"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

type CoverLetterService struct {
	db     *gorm.DB
	config *config.LLMConfig
	resume *ResumeService
}

func NewCoverLetterService(db *gorm.DB, cfg *config.LLMConfig, resume *ResumeService) *CoverLetterService {
	return &CoverLetterService{db: db, config: cfg, resume: resume}
}

type GenerateRequest struct {
	JobID uint   `json:"job_id" binding:"required"`
	Tone  string `json:"tone"` // professional, friendly, enthusiastic
}

type GenerateResult struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

// providerOrder is the fallback chain. The configured provider is tried
// first, then the rest in this order.
var providerOrder = []string{"openai", "anthropic", "gemini", "ollama"}

// Generate builds a prompt from the user's resume and the target job and
// walks the provider chain until one answers.
func (s *CoverLetterService) Generate(ctx context.Context, userID uint, req *GenerateRequest) (*GenerateResult, error) {
	var job models.Job
	if err := s.db.Preload("Company").First(&job, req.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("job not found")
		}
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	resume, err := s.resume.Get(userID)
	if err != nil {
		return nil, err
	}

	prompt := BuildCoverLetterPrompt(&user, resume, &job, req.Tone)
	logger.Infof("[AI] Cover letter prompt length: %d chars", len(prompt))

	providers := s.orderedProviders()
	var lastErr error
	for i, provider := range providers {
		logger.Infof("[AI] Attempting provider %d/%d: %s", i+1, len(providers), provider)

		content, err := s.callProvider(ctx, provider, prompt)
		if err == nil {
			logger.Infof("[AI] Success with provider: %s", provider)
			return &GenerateResult{Content: content, Model: provider + "/" + s.config.Model}, nil
		}

		lastErr = err
		logger.Infof("[AI] Provider %s failed: %v, trying next...", provider, err)
	}

	return nil, response.NewServerError(fmt.Sprintf("all providers failed, last error: %v", lastErr))
}

func (s *CoverLetterService) orderedProviders() []string {
	configured := s.config.Provider
	if configured == "" {
		configured = "openai"
	}

	providers := []string{configured}
	for _, p := range providerOrder {
		if p != configured {
			providers = append(providers, p)
		}
	}
	return providers
}

func (s *CoverLetterService) callProvider(ctx context.Context, provider, prompt string) (string, error) {
	switch provider {
	case "anthropic":
		return s.callAnthropic(ctx, prompt)
	case "gemini":
		return s.callGemini(ctx, prompt)
	case "ollama":
		return s.callOllama(ctx, prompt)
	default:
		// openai and OpenAI-compatible endpoints
		return s.callOpenAI(ctx, prompt)
	}
}

func (s *CoverLetterService) callOpenAI(ctx context.Context, prompt string) (string, error) {
	clientConfig := openai.DefaultConfig(s.config.APIKey)
	if s.config.BaseURL != "" {
		clientConfig.BaseURL = s.config.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	model := s.config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *CoverLetterService) callAnthropic(ctx context.Context, prompt string) (string, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(s.config.APIKey),
	)

	model := s.config.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	return content, nil
}

func (s *CoverLetterService) callGemini(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: s.config.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	model := s.config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return resp.Text(), nil
}

func (s *CoverLetterService) callOllama(ctx context.Context, prompt string) (string, error) {
	baseURL := s.config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := s.config.Model
	if model == "" {
		model = "llama3"
	}

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}
	return content.String(), nil
}

// BuildCoverLetterPrompt formats the applicant's resume and the target job
// into a single instruction prompt.
func BuildCoverLetterPrompt(user *models.User, resume *models.Resume, job *models.Job, tone string) string {
	if tone == "" {
		tone = "professional"
	}

	var b strings.Builder
	b.WriteString("Write a cover letter for the following job application.\n")
	fmt.Fprintf(&b, "Tone: %s. Keep it under 350 words. Return only the letter body.\n\n", tone)

	fmt.Fprintf(&b, "Applicant: %s\n", user.Name)
	if resume.Headline != "" {
		fmt.Fprintf(&b, "Headline: %s\n", resume.Headline)
	}
	if resume.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", resume.Summary)
	}
	writeSection(&b, "Experience", resume.Experience)
	writeSection(&b, "Education", resume.Education)
	writeSection(&b, "Skills", resume.Skills)
	writeSection(&b, "Projects", resume.Projects)

	fmt.Fprintf(&b, "\nJob title: %s\n", job.Title)
	if job.Company != nil {
		fmt.Fprintf(&b, "Company: %s\n", job.Company.Name)
	}
	if job.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", job.Location)
	}
	if job.Skills != "" {
		fmt.Fprintf(&b, "Required skills: %s\n", job.Skills)
	}
	if job.Description != "" {
		fmt.Fprintf(&b, "Description:\n%s\n", job.Description)
	}

	return b.String()
}

func writeSection(b *strings.Builder, name string, raw []byte) {
	if len(raw) == 0 || string(raw) == "[]" || string(raw) == "null" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", name, string(raw))
}
