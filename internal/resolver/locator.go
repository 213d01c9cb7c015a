package resolver

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/atlas-travel/places-cli/internal/model"
)

// The map surface encodes a resolved place in its locator as a 4-segment
// contract: {domain, product, place-or-search, name[, coord]}. The parse
// is pure string work and deliberately forgiving: a malformed locator
// yields an empty name, never an error.

// nameDelimiters is the fixed delimiter set the name segment is split on.
const nameDelimiters = "+ ,%20"

// ParsedLocator holds what could be extracted from a map locator.
type ParsedLocator struct {
	Name   string
	Coords *model.Coordinates
}

// ParseLocator extracts the canonical place name and optional coordinates
// from a map locator.
func ParseLocator(locator string) ParsedLocator {
	segments := locatorSegments(locator)

	var parsed ParsedLocator
	if len(segments) > 3 {
		parsed.Name = cleanNameSegment(segments[3])
	}
	if len(segments) > 4 {
		parsed.Coords = parseCoordSegment(segments[4])
	}
	return parsed
}

// locatorSegments unescapes the locator, strips the scheme, and splits on
// the path separator.
func locatorSegments(locator string) []string {
	if unescaped, err := url.PathUnescape(locator); err == nil {
		locator = unescaped
	}
	locator = strings.TrimPrefix(locator, "https://")
	locator = strings.TrimPrefix(locator, "http://")
	return strings.Split(locator, "/")
}

// cleanNameSegment splits the name segment on the fixed delimiter set and
// rejoins the non-empty tokens with spaces.
func cleanNameSegment(segment string) string {
	tokens := strings.FieldsFunc(segment, func(r rune) bool {
		return strings.ContainsRune(nameDelimiters, r)
	})
	return strings.Join(tokens, " ")
}

// parseCoordSegment splits the coordinate segment on commas and strips
// the leading "@" marker from each half.
func parseCoordSegment(segment string) *model.Coordinates {
	parts := strings.Split(segment, ",")
	if len(parts) < 2 {
		return nil
	}

	lon, err := strconv.ParseFloat(strings.TrimPrefix(parts[0], "@"), 64)
	if err != nil {
		return nil
	}
	lat, err := strconv.ParseFloat(strings.TrimPrefix(parts[1], "@"), 64)
	if err != nil {
		return nil
	}
	return &model.Coordinates{Lon: lon, Lat: lat}
}
