// Package analyzer инкапсулирует работу с внешним AI сервисом анализа
// контрактов: извлечение текста из PDF, умное сжатие длинных документов,
// сборку промпта и разбор ответа модели.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"artnuggets/internal/logger"
	"artnuggets/pkg/apperrors"
)

// Config - настройки клиента AI сервиса.
type Config struct {
	BaseURL          string
	APIKey           string
	Model            string
	Timeout          time.Duration
	MaxContractChars int
}

// Message - одно сообщение chat-completions диалога.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result - разобранный ответ модели.
type Result struct {
	// Основной текст анализа, без reasoning и markdown
	Response string
	// Рассуждения модели, если она их вернула
	Reasoning string
	// Formatted - текст для хранения: reasoning + разделитель + ответ
	Formatted string
}

type Client interface {
	// AnalyzeContract анализирует текст контракта с опциональным вопросом
	// пользователя.
	AnalyzeContract(ctx context.Context, contractText, userText string) (*Result, error)
	// Chat продолжает диалог с уже имеющейся историей сообщений.
	Chat(ctx context.Context, messages []Message) (*Result, error)
}

type HTTPClient struct {
	config     Config
	httpClient *http.Client
}

const analysisSystemMessage = "You are a contract analysis assistant specializing in creative industry agreements. Present factual observations about contract terms without making judgments. Explain technical legal language in plain terms. Always defer to legal professionals for specific advice."

func NewHTTPClient(config Config) *HTTPClient {
	if config.MaxContractChars == 0 {
		config.MaxContractChars = 8000
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	return &HTTPClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

func (c *HTTPClient) AnalyzeContract(ctx context.Context, contractText, userText string) (*Result, error) {
	if c.config.APIKey == "" {
		return nil, apperrors.ErrAnalyzerUnavailable(fmt.Errorf("analyzer API key is not configured"))
	}

	maxChars := c.config.MaxContractChars
	extracted, wasTruncated := SmartExtract(contractText, maxChars)

	// Если есть конкретный вопрос, подтягиваем релевантные ему абзацы
	contractContext := extracted
	if relevant, used := ExtractRelevantSections(contractText, userText, maxChars); used {
		contractContext = "[TARGETED EXTRACT BASED ON QUESTION]\n" + relevant
		if len(contractContext) < int(float64(maxChars)*0.8) {
			remaining := maxChars - len(contractContext)
			if remaining > 0 && len(extracted) > 0 {
				supplemental := extracted
				if len(supplemental) > remaining {
					supplemental = supplemental[:remaining]
				}
				contractContext += "\n\n[ADDITIONAL CONTEXT]\n" + supplemental
			}
		}
		wasTruncated = true
	}

	prompt := BuildPrompt(contractContext, userText, wasTruncated)

	raw, err := c.complete(ctx, []Message{
		{Role: "system", Content: analysisSystemMessage},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, err
	}

	result := parseRaw(raw)

	if wasTruncated {
		warning := "Important Note: This analysis is based on a strategic extraction of the contract that includes:\n" +
			"- The beginning (definitions, main terms)\n" +
			"- Key sections (payment, IP rights, termination, liability, etc.)\n" +
			"- The ending (important clauses, dispute resolution, etc.)\n\n" +
			"Some middle sections may have been omitted. For a complete analysis, please review the full contract with legal counsel.\n\n"
		result.Response = warning + result.Response
		result.Formatted = warning + result.Formatted
	}

	return result, nil
}

func (c *HTTPClient) Chat(ctx context.Context, messages []Message) (*Result, error) {
	if c.config.APIKey == "" {
		return nil, apperrors.ErrAnalyzerUnavailable(fmt.Errorf("analyzer API key is not configured"))
	}

	withSystem := append([]Message{{Role: "system", Content: analysisSystemMessage}}, messages...)
	raw, err := c.complete(ctx, withSystem)
	if err != nil {
		return nil, err
	}
	return parseRaw(raw), nil
}

func parseRaw(raw string) *Result {
	main, reasoning := ExtractReasoning(raw)
	return &Result{
		Response:  main,
		Reasoning: reasoning,
		Formatted: FormatWithReasoning(main, reasoning),
	}
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *HTTPClient) complete(ctx context.Context, messages []Message) (string, error) {
	payload := chatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: 0.3,
		MaxTokens:   3000,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.ErrAnalyzerUnavailable(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", apperrors.ErrAnalyzerUnavailable(err)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", apperrors.ErrAnalyzerUnavailable(fmt.Errorf("invalid response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		logger.Warn("analyzer request failed", "status", resp.StatusCode, "error", msg)
		return "", apperrors.ErrAnalyzerUnavailable(fmt.Errorf("upstream status %d: %s", resp.StatusCode, msg))
	}

	if len(parsed.Choices) == 0 {
		return "", apperrors.ErrAnalyzerUnavailable(fmt.Errorf("empty choices in response"))
	}

	return parsed.Choices[0].Message.Content, nil
}
