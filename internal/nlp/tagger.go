package nlp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atlas-travel/places-cli/pkg/anthropic"
)

const taggerSystem = `You tag named entities in a single English sentence.
Return ONLY a JSON array; each element is {"text": "<span>", "label": "<LABEL>"}.
Labels: TIME (durations and clock times), DATE (calendar references), LOC (place names).
Tag only spans present verbatim in the sentence. Return [] when nothing matches.`

// ClaudeTagger implements Extractor with a model-backed entity tagger and
// the local regex sentence splitter.
type ClaudeTagger struct {
	client anthropic.Client
	model  string
}

// NewClaudeTagger creates a tagger using the given model.
func NewClaudeTagger(client anthropic.Client, model string) *ClaudeTagger {
	return &ClaudeTagger{client: client, model: model}
}

func (t *ClaudeTagger) Sentences(text string) []string {
	return SplitSentences(text)
}

func (t *ClaudeTagger) Entities(ctx context.Context, sentence string) ([]Entity, error) {
	resp, err := t.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     t.model,
		MaxTokens: 1024,
		System:    taggerSystem,
		Messages:  []anthropic.Message{{Role: "user", Content: sentence}},
	})
	if err != nil {
		return nil, eris.Wrap(err, "nlp: tag entities")
	}
	resp.Usage.LogCost(t.model, "entity_tagging")

	entities, err := parseEntityJSON(resp.Text)
	if err != nil {
		zap.L().Warn("nlp: unparseable tagger output",
			zap.String("sentence", sentence), zap.Error(err))
		return nil, nil
	}
	return entities, nil
}

// parseEntityJSON extracts the JSON array from the model output, which
// occasionally arrives fenced or with surrounding prose.
func parseEntityJSON(text string) ([]Entity, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return nil, eris.New("no JSON array in output")
	}

	var raw []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, eris.Wrap(err, "decode entity array")
	}

	entities := make([]Entity, 0, len(raw))
	for _, r := range raw {
		if r.Text == "" {
			continue
		}
		entities = append(entities, Entity{Text: r.Text, Label: EntityLabel(strings.ToUpper(r.Label))})
	}
	return entities, nil
}
