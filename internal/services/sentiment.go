package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	openai "github.com/sashabaranov/go-openai"
	"github.com/repustack/repustack/backend/internal/config"
	"github.com/repustack/repustack/backend/internal/models"
)

// Classification is the advisory sentiment verdict for one answer text.
type Classification struct {
	Sentiment  string   `json:"sentiment"` // positive, negative, neutral
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords,omitempty"`
	Summary    string   `json:"summary,omitempty"`
}

// Classifier turns free-text answer content into a sentiment bucket.
// Implementations must be deterministic for identical input so that
// recomputing a stored answer is idempotent.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Classification, error)
}

// NewClassifier selects the classifier implementation from config.
func NewClassifier(cfg *config.SentimentConfig) Classifier {
	if cfg != nil && cfg.Provider == "openai" && cfg.APIKey != "" {
		return NewOpenAIClassifier(cfg)
	}
	return NewKeywordClassifier()
}

// --- Keyword classifier (default) ---

// KeywordClassifier is a deterministic lexicon-based classifier. It is
// the production default and the fixture for consistency tests; real
// NLP plugs in behind the same interface.
type KeywordClassifier struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var positiveLexicon = []string{
	"good", "great", "excellent", "amazing", "awesome", "fantastic",
	"wonderful", "love", "loved", "best", "friendly", "helpful",
	"happy", "satisfied", "recommend", "perfect", "quick", "clean",
	"professional", "pleasant", "thanks", "thank",
}

var negativeLexicon = []string{
	"bad", "terrible", "awful", "horrible", "worst", "hate", "hated",
	"slow", "rude", "dirty", "disappointed", "disappointing", "poor",
	"never", "unacceptable", "unhelpful", "late", "broken", "wrong",
	"refund", "complaint", "angry",
}

func NewKeywordClassifier() *KeywordClassifier {
	c := &KeywordClassifier{
		positive: make(map[string]struct{}, len(positiveLexicon)),
		negative: make(map[string]struct{}, len(negativeLexicon)),
	}
	for _, w := range positiveLexicon {
		c.positive[w] = struct{}{}
	}
	for _, w := range negativeLexicon {
		c.negative[w] = struct{}{}
	}
	return c
}

func (c *KeywordClassifier) Classify(_ context.Context, text string) (*Classification, error) {
	words := tokenize(text)

	var posHits, negHits int
	var keywords []string
	seen := make(map[string]struct{})

	for _, w := range words {
		_, pos := c.positive[w]
		_, neg := c.negative[w]
		if !pos && !neg {
			continue
		}
		if pos {
			posHits++
		}
		if neg {
			negHits++
		}
		if _, dup := seen[w]; !dup {
			seen[w] = struct{}{}
			keywords = append(keywords, w)
		}
	}

	result := &Classification{
		Keywords: keywords,
		Summary:  summarize(text),
	}

	total := posHits + negHits
	switch {
	case total == 0 || posHits == negHits:
		result.Sentiment = models.SentimentNeutral
		result.Confidence = 0.5
	case posHits > negHits:
		result.Sentiment = models.SentimentPositive
		result.Confidence = 0.5 + 0.5*float64(posHits-negHits)/float64(total)
	default:
		result.Sentiment = models.SentimentNegative
		result.Confidence = 0.5 + 0.5*float64(negHits-posHits)/float64(total)
	}

	return result, nil
}

// tokenize lowercases and splits on any non-letter rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// summarize keeps the first 120 characters of the answer as a preview.
func summarize(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= 120 {
		return text
	}
	return text[:120] + "..."
}

// --- OpenAI-backed classifier (optional) ---

type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

func NewOpenAIClassifier(cfg *config.SentimentConfig) *OpenAIClassifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

const sentimentPrompt = `Classify the sentiment of the customer feedback below.
Respond with a single JSON object and nothing else:
{"sentiment": "positive"|"negative"|"neutral", "confidence": 0.0-1.0, "keywords": [..], "summary": "one sentence"}

Feedback:
%s`

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (*Classification, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(sentimentPrompt, text)},
		},
		Temperature: 0, // determinism matters more than fluency here
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.Trim(content, "`")

	var result Classification
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("unparseable classification %q: %w", content, err)
	}

	switch result.Sentiment {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
	default:
		result.Sentiment = models.SentimentNeutral
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	return &result, nil
}
