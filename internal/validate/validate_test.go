package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-travel/places-cli/internal/faults"
	"github.com/atlas-travel/places-cli/internal/model"
)

func TestValidateNameMatchAlone(t *testing.T) {
	v := New()
	record := model.SourceRecord{
		"name": "Gardens by the Bay",
		// no address at all
	}

	out, err := v.Validate(model.KindFoursquare, "Gardens by the Bay", "18 Marina Gardens Dr", record)
	require.NoError(t, err)
	assert.False(t, out.Empty(), "strong name match alone must accept")
}

func TestValidateAddressMatchAlone(t *testing.T) {
	v := New()
	record := model.SourceRecord{
		"name": "completely unrelated venue",
		"location": map[string]any{
			"formattedAddress": []any{"18 Marina Gardens Drive", "Singapore 018953"},
		},
	}

	out, err := v.Validate(model.KindFoursquare, "zzzzqqqq", "18 Marina Gardens Drive, Singapore", record)
	require.NoError(t, err)
	assert.False(t, out.Empty(), "strong address match alone must accept")
}

func TestValidateAddressTrimsBothSides(t *testing.T) {
	v := New()
	record := model.SourceRecord{
		"title": "completely unrelated venue",
		"address": map[string]any{
			"label": "1 Fullerton Rd, #01-01, Singapore 049213, Singapore, Southeast Asia",
		},
	}

	out, err := v.Validate(model.KindHere, "zzzzqqqq", "1 Fullerton Road, Singapore", record)
	require.NoError(t, err)
	assert.False(t, out.Empty(), "locality noise on the candidate side must not sink a street match")
}

func TestValidateBothFailRejects(t *testing.T) {
	v := New()
	record := model.SourceRecord{
		"name": "Bukit Timah Bicycle Workshop",
		"location": map[string]any{
			"formattedAddress": []any{"999 Upper Bukit Timah Rd"},
		},
	}

	out, err := v.Validate(model.KindFoursquare, "Merlion Park", "1 Fullerton Road", record)
	require.NoError(t, err)
	assert.True(t, out.Empty(), "rejected record must come back empty, not nil")
	assert.NotNil(t, out)
}

func TestValidateNASkipsSubCheck(t *testing.T) {
	v := New()
	record := model.SourceRecord{"name": "N/A"}

	out, err := v.Validate(model.KindFoursquare, "Merlion Park", "", record)
	require.NoError(t, err)
	assert.True(t, out.Empty(), "no usable signal rejects")
}

func TestValidateEmptyRecordStaysEmpty(t *testing.T) {
	v := New()

	out, err := v.Validate(model.KindHere, "Merlion Park", "1 Fullerton Road", model.SourceRecord{})
	require.NoError(t, err)
	assert.True(t, out.Empty())
}

func TestValidatePerKindPaths(t *testing.T) {
	v := New()

	detail := model.SourceRecord{
		"response": map[string]any{
			"venue": map[string]any{
				"name": "Singapore Zoo",
				"location": map[string]any{
					"formattedAddress": []any{"80 Mandai Lake Rd"},
				},
			},
		},
	}
	out, err := v.Validate(model.KindFoursquareDetail, "Singapore Zoo", "80 Mandai Lake Rd", detail)
	require.NoError(t, err)
	assert.False(t, out.Empty())

	hereRecord := model.SourceRecord{
		"title": "Singapore Zoo",
		"address": map[string]any{
			"label": "80 Mandai Lake Rd, Singapore",
		},
	}
	out, err = v.Validate(model.KindHere, "Singapore Zoo", "80 Mandai Lake Rd", hereRecord)
	require.NoError(t, err)
	assert.False(t, out.Empty())
}

func TestValidateDiacriticsNormalized(t *testing.T) {
	v := New()
	record := model.SourceRecord{"name": "Café Iguana"}

	out, err := v.Validate(model.KindReviews, "Cafe Iguana", "", record)
	require.NoError(t, err)
	assert.False(t, out.Empty())
}

func TestValidateUnknownKindIsFatal(t *testing.T) {
	v := New()

	_, err := v.Validate(model.SourceKind("bogus"), "x", "y", model.SourceRecord{"name": "x"})
	require.Error(t, err)
	assert.True(t, faults.IsFatal(err))
}
