package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

var ErrAssistantUnavailable = errors.New("assistant provider unavailable")

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer — провайдер LLM-ответов. Сервис знает только этот интерфейс.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

const assistantSystemPrompt = "Ты — помощник модератора маркетплейса Onerinn (искусство и электроника). " +
	"Отвечай кратко и по делу: правила модерации объявлений, верификация продавцов, выплаты, споры."

const assistantHistoryLimit = 20 // сообщений на сессию, старое отбрасываем

type AssistantService struct {
	completer Completer

	mu      sync.Mutex
	history map[string][]ChatMessage // ключ — ID админской сессии
}

func NewAssistantService(completer Completer) *AssistantService {
	return &AssistantService{
		completer: completer,
		history:   make(map[string][]ChatMessage),
	}
}

// Ask ведёт диалог в рамках одной админской сессии: история живёт в памяти
// и умирает вместе с сессией/процессом
func (s *AssistantService) Ask(ctx context.Context, sessionID, message string) (string, error) {
	s.mu.Lock()
	past := append([]ChatMessage(nil), s.history[sessionID]...)
	s.mu.Unlock()

	messages := make([]ChatMessage, 0, len(past)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: assistantSystemPrompt})
	messages = append(messages, past...)
	messages = append(messages, ChatMessage{Role: "user", Content: message})

	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssistantUnavailable, err)
	}

	s.mu.Lock()
	h := append(s.history[sessionID],
		ChatMessage{Role: "user", Content: message},
		ChatMessage{Role: "assistant", Content: reply},
	)
	if len(h) > assistantHistoryLimit {
		h = h[len(h)-assistantHistoryLimit:]
	}
	s.history[sessionID] = h
	s.mu.Unlock()

	return reply, nil
}

func (s *AssistantService) Forget(sessionID string) {
	s.mu.Lock()
	delete(s.history, sessionID)
	s.mu.Unlock()
}

// HTTPCompleter — клиент OpenAI-совместимого chat-completions API.
type HTTPCompleter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewHTTPCompleter(baseURL, apiKey, model string) *HTTPCompleter {
	return &HTTPCompleter{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *HTTPCompleter) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	body, err := json.Marshal(completionRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("bad completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("completion status=%d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("completion status=%d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
