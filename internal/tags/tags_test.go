package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{
			name:  "single label",
			texts: []string{"We took the kids to the petting area"},
			want:  []string{"family"},
		},
		{
			name:  "multiple labels sorted",
			texts: []string{"A romantic dinner by the lake with live music"},
			want:  []string{"foodie", "nature", "nightlife", "romantic"},
		},
		{
			name:  "evidence spread across texts",
			texts: []string{"great museum", "the rooftop bar was packed"},
			want:  []string{"cultural", "nightlife"},
		},
		{
			name:  "no evidence",
			texts: []string{"it rained all morning"},
			want:  nil,
		},
		{
			name:  "empty input",
			texts: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.texts))
		})
	}
}

func TestDeriveWholeWordOnly(t *testing.T) {
	// "art" inside "apartment" must not evidence cultural.
	assert.Empty(t, Derive([]string{"our apartment was nearby"}))
	assert.Equal(t, []string{"cultural"}, Derive([]string{"an art gallery downtown"}))
}

func TestDeriveMultiWordSubstring(t *testing.T) {
	assert.Contains(t, Derive([]string{"a perfect night out with friends"}), "nightlife")
	assert.Contains(t, Derive([]string{"the roller coaster was terrifying"}), "adventure")
	assert.Contains(t, Derive([]string{"very family-friendly place"}), "family")
}

func TestDeriveCaseInsensitive(t *testing.T) {
	assert.Equal(t, []string{"cultural"}, Derive([]string{"A UNESCO Heritage Site"}))
}
