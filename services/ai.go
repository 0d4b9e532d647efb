package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// AIClient calls the hosted-inference chat API behind the trip assistant.
type AIClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

var aiClient *AIClient

func InitAI() {
	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "mistralai/Mistral-7B-Instruct-v0.3"
	}

	aiClient = &AIClient{
		apiKey: os.Getenv("AI_API_KEY"),
		model:  model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	if aiClient.apiKey != "" {
		log.Println("✅ AI assistant initialized with model:", model)
	} else {
		log.Println("⚠️  AI_API_KEY not set, assistant replies will use fallback text")
	}
}

func GetAIClient() *AIClient {
	return aiClient
}

func (c *AIClient) Configured() bool {
	return c != nil && c.apiKey != ""
}

// ChatMessage is one turn of assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatReply is the assistant's answer plus any structured place
// recommendations it embedded.
type ChatReply struct {
	Text            string        `json:"text"`
	Recommendations []PlaceResult `json:"recommendations,omitempty"`
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type inferenceResponse []struct {
	GeneratedText string `json:"generated_text"`
}

// Chat sends the conversation to the model and parses the reply. The
// destination gives the assistant geographic context for recommendations.
func (c *AIClient) Chat(ctx context.Context, messages []ChatMessage, destination string, lat, lng float64) (*ChatReply, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	reqBody := inferenceRequest{
		Inputs: buildChatPrompt(messages, destination),
		Parameters: inferenceParameters{
			MaxNewTokens:   500,
			Temperature:    0.6,
			ReturnFullText: false,
		},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("https://api-inference.huggingface.co/models/%s", c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, fmt.Errorf("%w: model is loading, retry shortly", ErrUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: inference API error (%d): %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var parsed inferenceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: inference response: %v", ErrBadResponse, err)
	}
	if len(parsed) == 0 || parsed[0].GeneratedText == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrBadResponse)
	}

	text, recs := extractRecommendations(parsed[0].GeneratedText, lat, lng)
	return &ChatReply{Text: text, Recommendations: recs}, nil
}

func buildChatPrompt(messages []ChatMessage, destination string) string {
	var b strings.Builder
	b.WriteString("[INST] You are a concise, practical travel assistant")
	if destination != "" {
		fmt.Fprintf(&b, " helping plan a visit to %s", destination)
	}
	b.WriteString(`. Answer the traveler directly.
When you recommend specific places, append one JSON block at the end:
RECOMMENDATIONS: [{"name": "...", "category": "restaurant|experience", "lat": 0, "lng": 0}]

Conversation so far:
`)
	for _, m := range messages {
		role := "Traveler"
		if m.Role == "assistant" {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}
	b.WriteString("Assistant: [/INST]")
	return b.String()
}

// extractRecommendations splits the optional RECOMMENDATIONS JSON block off
// the reply text. Entries without a name are dropped; entries without
// coordinates inherit the conversation's destination point.
func extractRecommendations(text string, lat, lng float64) (string, []PlaceResult) {
	idx := strings.LastIndex(text, "RECOMMENDATIONS:")
	if idx < 0 {
		return strings.TrimSpace(text), nil
	}

	blob := strings.TrimSpace(text[idx+len("RECOMMENDATIONS:"):])
	var raw []struct {
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Lat      float64 `json:"lat"`
		Lng      float64 `json:"lng"`
	}
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		// Malformed block: keep the prose, skip the structured part.
		return strings.TrimSpace(text[:idx]), nil
	}

	recs := make([]PlaceResult, 0, len(raw))
	for i, r := range raw {
		if r.Name == "" {
			continue
		}
		if r.Lat == 0 && r.Lng == 0 {
			r.Lat, r.Lng = lat, lng
		}
		category := r.Category
		if category == "" {
			category = "experience"
		}
		recs = append(recs, PlaceResult{
			ID:       fmt.Sprintf("ai-%d-%s", i, slugify(r.Name)),
			Name:     r.Name,
			Category: category,
			Lat:      r.Lat,
			Lng:      r.Lng,
			Source:   "ai",
		})
	}
	return strings.TrimSpace(text[:idx]), recs
}

func slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// FallbackChatReply answers without the model: a short canned reply plus
// estimated recommendations near the destination.
func FallbackChatReply(messages []ChatMessage, destination string, lat, lng float64) *ChatReply {
	last := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			last = messages[i].Content
			break
		}
	}

	category := "experience"
	if strings.Contains(strings.ToLower(last), "restaurant") ||
		strings.Contains(strings.ToLower(last), "eat") ||
		strings.Contains(strings.ToLower(last), "food") {
		category = "restaurant"
	}

	place := destination
	if place == "" {
		place = "your destination"
	}
	text := fmt.Sprintf(
		"I can't reach the assistant service right now, so here are some popular %s picks for %s. "+
			"Save any of them to your collections and drag them onto a day.",
		category, place)

	return &ChatReply{
		Text:            text,
		Recommendations: GeneratePlacesFallback(category, place, lat, lng, 4),
	}
}
