package registry

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// LoadPriorsFromNotion reads priors from a Notion database with
// Category (title), Hours (number), and HighPriority (checkbox)
// properties, following pagination to the end.
func LoadPriorsFromNotion(ctx context.Context, key, databaseID string) (*Registry, error) {
	client := notionapi.NewClient(notionapi.Token(key))

	var priors []Prior
	req := &notionapi.DatabaseQueryRequest{}
	for {
		resp, err := client.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
		if err != nil {
			return nil, eris.Wrap(err, "registry: query priors database")
		}
		for _, page := range resp.Results {
			if prior, ok := priorFromPage(page); ok {
				priors = append(priors, prior)
			}
		}
		if !resp.HasMore {
			break
		}
		req = &notionapi.DatabaseQueryRequest{StartCursor: resp.NextCursor}
	}
	return New(priors), nil
}

func priorFromPage(page notionapi.Page) (Prior, bool) {
	var prior Prior
	for name, prop := range page.Properties {
		switch p := prop.(type) {
		case *notionapi.TitleProperty:
			for _, t := range p.Title {
				prior.Category += t.PlainText
			}
		case *notionapi.NumberProperty:
			if name == "Hours" {
				prior.Hours = p.Number
			}
		case *notionapi.CheckboxProperty:
			if name == "HighPriority" {
				prior.HighPriority = p.Checkbox
			}
		}
	}
	return prior, prior.Category != "" && prior.Hours > 0
}
