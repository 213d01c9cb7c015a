// Package fetcher loads keyword mention lists from local or remote
// sources.
package fetcher

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/atlas-travel/places-cli/internal/model"
)

// LoadKeywords reads a JSON array of keywords from a local path or an
// http(s)/ftp URL.
func LoadKeywords(ctx context.Context, source string) ([]model.Keyword, error) {
	var reader io.ReadCloser
	var err error
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		reader, err = NewHTTPFetcher(HTTPOptions{}).Download(ctx, source)
	case strings.HasPrefix(source, "ftp://"):
		reader, err = NewFTPFetcher(0).Download(ctx, source)
	default:
		reader, err = os.Open(source)
		err = eris.Wrapf(err, "fetcher: open keywords file %s", source)
	}
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: read keywords")
	}

	var keywords []model.Keyword
	if err := json.Unmarshal(data, &keywords); err != nil {
		return nil, eris.Wrap(err, "fetcher: unmarshal keywords")
	}
	return keywords, nil
}
