package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"cardtrack/internal/core"
)

// GeminiClassifier asks a Gemini model to extract the transaction fields
// from raw SMS text. It expects the model to return a strict JSON object.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

func NewGeminiClassifier(ctx context.Context, apiKey, model string) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClassifier{client: client, model: model}, nil
}

// classifiedSMS is the wire shape the model is instructed to emit.
type classifiedSMS struct {
	Merchant  string  `json:"merchant"`
	Amount    float64 `json:"amount"`
	CardLast4 string  `json:"card_last4"`
	Category  string  `json:"category"`
}

func (g *GeminiClassifier) Classify(ctx context.Context, text string, cards []core.Card) (*Classification, error) {
	prompt := buildPrompt(text, cards)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	var parsed classifiedSMS
	if err := json.Unmarshal([]byte(cleanModelJSON(rawText)), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal model response: %w\nraw response: %s", err, rawText)
	}

	amount, err := core.CentsFromFloat(parsed.Amount)
	if err != nil {
		return nil, fmt.Errorf("model returned amount %v: %w", parsed.Amount, err)
	}
	if strings.TrimSpace(parsed.Merchant) == "" {
		return nil, fmt.Errorf("model returned no merchant")
	}
	if !core.ValidLast4(parsed.CardLast4) {
		return nil, fmt.Errorf("model returned card digits %q", parsed.CardLast4)
	}

	return &Classification{
		Merchant:  strings.TrimSpace(parsed.Merchant),
		Amount:    core.Money{Cents: amount},
		CardLast4: parsed.CardLast4,
		Category:  core.ParseCategory(parsed.Category),
	}, nil
}

func buildPrompt(text string, cards []core.Card) string {
	var last4s []string
	for _, c := range cards {
		last4s = append(last4s, c.Last4)
	}

	var categories []string
	for _, cat := range core.Categories() {
		categories = append(categories, string(cat))
	}

	return "You are a bank SMS parser for a personal expense tracker.\n\n" +
		"Task:\n" +
		"- Extract the single purchase described by the SMS below.\n" +
		"- Output STRICT JSON only (no comments, no extra text).\n" +
		"- Output a single JSON object.\n\n" +
		"The object must have these fields:\n" +
		"- \"merchant\": string, the merchant or payee name\n" +
		"- \"amount\": number, the purchase amount as a positive decimal\n" +
		"- \"card_last4\": string, the four card digits mentioned in the SMS,\n" +
		"  chosen from this list: " + strings.Join(last4s, ", ") + "\n" +
		"- \"category\": string, one of: " + strings.Join(categories, ", ") + "\n\n" +
		"Rules:\n" +
		"- If the category is unclear, use \"Other\".\n" +
		"- Return ONLY valid raw JSON.\n" +
		"- Do NOT wrap the response in code fences.\n" +
		"- Do NOT use ```json or any Markdown.\n" +
		"- Output must begin with \"{\" and end with \"}\".\n\n" +
		"SMS:\n" + text + "\n"
}

// cleanModelJSON strips Markdown fences and surrounding junk when the
// model ignores the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
