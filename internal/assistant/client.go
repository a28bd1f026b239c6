package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"eliteagenda/internal/model"
)

const defaultModel = "gemini-3-flash-preview"

const systemInstructionTemplate = `You are "Elite AI", a highly efficient personal assistant.
Your goal is to help the user manage their agenda and life.
You can help create events, summarize the day, and provide advice.

Special Attention: MEDICINE REMINDERS and RECURRING ALARMS.
If the user mentions taking medicine (remédio, pílula, dose, etc.), always categorize it as "health" and suggest a reminder.
If the user says "todos os dias", "diariamente", "sempre às", detect it as a recurring event (daily).

If the user wants to schedule something, identify the title, date, time, priority, and if it repeats.
Always respond in a helpful, professional, and concise manner.
Current date context: %s.

Available priorities: low, medium, high.
Available categories: work, personal, health, finance, other.
Available recurrence: none, daily.`

// Config holds the generative API configuration from environment variables.
type Config struct {
	APIKey string
	Model  string
}

// Client is a typed client for the Gemini generateContent API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewClient creates a client. An empty model falls back to the default.
func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
}

// Turn is one prior conversation turn. Role is "user" or "model".
type Turn struct {
	Role string
	Text string
}

// Extraction is the schema-constrained event extraction result.
type Extraction struct {
	IsEvent     bool   `json:"isEvent"`
	Title       string `json:"title"`
	Start       string `json:"start"` // ISO 8601
	End         string `json:"end"`   // ISO 8601
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Recurrence  string `json:"recurrence"`
	Description string `json:"description"`
}

// Wire types for the generateContent endpoint.
type apiPart struct {
	Text string `json:"text"`
}

type apiContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []apiPart `json:"parts"`
}

type generationConfig struct {
	Temperature      float64         `json:"temperature,omitempty"`
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type apiRequest struct {
	SystemInstruction *apiContent       `json:"system_instruction,omitempty"`
	Contents          []apiContent      `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type apiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []apiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// extractionSchema constrains the extraction response to the event shape.
var extractionSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"isEvent": {"type": "BOOLEAN"},
		"title": {"type": "STRING"},
		"start": {"type": "STRING", "description": "ISO 8601 format"},
		"end": {"type": "STRING", "description": "ISO 8601 format"},
		"priority": {"type": "STRING", "enum": ["low", "medium", "high"]},
		"category": {"type": "STRING", "enum": ["work", "personal", "health", "finance", "other"]},
		"recurrence": {"type": "STRING", "enum": ["none", "daily"]},
		"description": {"type": "STRING"}
	},
	"required": ["isEvent"]
}`)

// Chat sends the user's message with agenda context and prior turns and
// returns the assistant's reply text.
func (c *Client) Chat(ctx context.Context, prompt string, agenda []model.Event, history []Turn) (string, error) {
	var lines []string
	for _, e := range agenda {
		kind := "One-time"
		if e.Recurrence == model.RecurrenceDaily {
			kind = "Daily"
		}
		lines = append(lines, fmt.Sprintf("- %s at %s (%s)", e.Title, e.StartTime.Format("15:04"), kind))
	}
	agendaContext := strings.Join(lines, "\n")
	if agendaContext == "" {
		agendaContext = "No events scheduled yet."
	}

	fullPrompt := fmt.Sprintf("Current User Agenda:\n%s\n\nUser message: %s", agendaContext, prompt)

	contents := make([]apiContent, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, apiContent{Role: turn.Role, Parts: []apiPart{{Text: turn.Text}}})
	}
	contents = append(contents, apiContent{Role: "user", Parts: []apiPart{{Text: fullPrompt}}})

	req := apiRequest{
		SystemInstruction: &apiContent{
			Parts: []apiPart{{Text: fmt.Sprintf(systemInstructionTemplate, c.now().Format("2006-01-02 15:04:05"))}},
		},
		Contents:         contents,
		GenerationConfig: &generationConfig{Temperature: 0.7},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "I'm sorry, I couldn't process that.", nil
	}
	return text, nil
}

// ExtractEvent asks the model to extract structured event details from
// free text. A nil result with nil error means the text is not an event.
func (c *Client) ExtractEvent(ctx context.Context, text string) (*Extraction, error) {
	prompt := fmt.Sprintf(`Extract event details from this text: %q. Check if it's recurring daily ("todos os dias").`, text)

	req := apiRequest{
		Contents: []apiContent{{Role: "user", Parts: []apiPart{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   extractionSchema,
		},
	}

	raw, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var ext Extraction
	if err := json.Unmarshal([]byte(raw), &ext); err != nil {
		return nil, fmt.Errorf("parse extraction: %w", err)
	}
	if !ext.IsEvent {
		return nil, nil
	}
	return &ext, nil
}

func (c *Client) generate(ctx context.Context, req apiRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generate content: status %d: %s", resp.StatusCode, data)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}
