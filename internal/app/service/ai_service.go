package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jattu8602/ek-sub000/config"
	"github.com/jattu8602/ek-sub000/pkg/logger"
)

var (
	ErrAINotConfigured = errors.New("AI API key is not configured")
	ErrAIUpstream      = errors.New("AI provider returned an error")
)

// GeneratedDescription is the bilingual copy the admin product form
// offers as a starting point.
type GeneratedDescription struct {
	English string `json:"english"`
	Hindi   string `json:"hindi"`
}

// ImageResult is one stock-photo candidate for a product.
type ImageResult struct {
	URL   string `json:"url"`
	Thumb string `json:"thumb"`
	Alt   string `json:"alt"`
}

type AIService interface {
	GenerateDescription(ctx context.Context, name, category, subcategory string) (*GeneratedDescription, error)
	SearchImages(ctx context.Context, query string, perPage int) ([]ImageResult, error)
}

type aiService struct {
	config *config.Config
	client *http.Client
}

func NewAIService(cfg *config.Config) AIService {
	return &aiService{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// GenerateDescription asks the model for a short English description of
// the product and then for its Hindi rendering. Two calls keep the
// prompts simple and the parsing trivial.
func (s *aiService) GenerateDescription(ctx context.Context, name, category, subcategory string) (*GeneratedDescription, error) {
	if s.config.AI.GeminiAPIKey == "" {
		return nil, ErrAINotConfigured
	}

	classification := category
	if subcategory != "" {
		classification = fmt.Sprintf("%s / %s", category, subcategory)
	}
	englishPrompt := fmt.Sprintf(
		"Write a product description for an online farm-produce store.\n"+
			"Product: %s\nCategory: %s\n\n"+
			"Rules:\n"+
			"- 2 to 3 short sentences, plain language a shopper understands.\n"+
			"- Mention freshness, origin or usage only in general terms, never invent certifications or numbers.\n"+
			"- Output only the description text, no heading and no quotes.",
		name, classification,
	)
	english, err := s.callGemini(ctx, englishPrompt)
	if err != nil {
		return nil, err
	}

	hindiPrompt := fmt.Sprintf(
		"Translate the following product description into natural Hindi for an Indian grocery shopper. "+
			"Output only the Hindi text.\n\n%s",
		english,
	)
	hindi, err := s.callGemini(ctx, hindiPrompt)
	if err != nil {
		return nil, err
	}

	logger.Info("AI description generated", map[string]interface{}{
		"product_name": name,
		"category":     category,
		"subcategory":  subcategory,
	})
	return &GeneratedDescription{
		English: english,
		Hindi:   hindi,
	}, nil
}

func (s *aiService) callGemini(ctx context.Context, prompt string) (string, error) {
	reqData := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(s.config.AI.GeminiBaseURL, "/"),
		s.config.AI.GeminiModel,
		s.config.AI.GeminiAPIKey,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %v", err)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %v", err)
	}
	if geminiResp.Error != nil {
		logger.Error("Gemini API error", ErrAIUpstream, map[string]interface{}{
			"status":  geminiResp.Error.Status,
			"message": geminiResp.Error.Message,
		})
		return "", fmt.Errorf("%w: %s", ErrAIUpstream, geminiResp.Error.Message)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrAIUpstream)
	}

	return strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text), nil
}

type imageSearchResponse struct {
	Results []struct {
		AltDescription string `json:"alt_description"`
		URLs           struct {
			Regular string `json:"regular"`
			Thumb   string `json:"thumb"`
		} `json:"urls"`
	} `json:"results"`
}

// SearchImages queries the stock photo API for product image
// candidates.
func (s *aiService) SearchImages(ctx context.Context, query string, perPage int) ([]ImageResult, error) {
	if s.config.AI.ImageSearchAPIKey == "" {
		return nil, ErrAINotConfigured
	}
	if perPage <= 0 || perPage > 30 {
		perPage = 12
	}

	endpoint := fmt.Sprintf("%s/search/photos?query=%s&per_page=%d",
		strings.TrimRight(s.config.AI.ImageSearchBaseURL, "/"),
		url.QueryEscape(query),
		perPage,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Client-ID "+s.config.AI.ImageSearchAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		logger.Error("Image search API error", ErrAIUpstream, map[string]interface{}{
			"status_code": resp.StatusCode,
			"query":       query,
		})
		return nil, fmt.Errorf("%w: status %d", ErrAIUpstream, resp.StatusCode)
	}

	var searchResp imageSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}

	results := make([]ImageResult, 0, len(searchResp.Results))
	for _, r := range searchResp.Results {
		results = append(results, ImageResult{
			URL:   r.URLs.Regular,
			Thumb: r.URLs.Thumb,
			Alt:   r.AltDescription,
		})
	}

	logger.Debug("Image search completed", map[string]interface{}{
		"query":   query,
		"results": len(results),
	})
	return results, nil
}
