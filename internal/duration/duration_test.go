package duration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-travel/places-cli/internal/nlp"
)

// fakeExtractor tags scripted entities per sentence.
type fakeExtractor struct {
	entities map[string][]nlp.Entity
}

func (f *fakeExtractor) Sentences(text string) []string {
	return nlp.SplitSentences(text)
}

func (f *fakeExtractor) Entities(_ context.Context, sentence string) ([]nlp.Entity, error) {
	return f.entities[sentence], nil
}

func ptr(v float64) *float64 { return &v }

func TestEstimateCoupleOfHours(t *testing.T) {
	text := "spent a couple of hours here"
	e := New(&fakeExtractor{entities: map[string][]nlp.Entity{
		text: {{Text: "a couple of hours", Label: nlp.LabelTime}},
	}})

	got := e.Estimate(context.Background(), []string{text}, nil, false)
	require.NotNil(t, got)
	assert.Equal(t, 2.0, *got)
}

func TestEstimateNoEntitiesReturnsPrior(t *testing.T) {
	e := New(&fakeExtractor{entities: map[string][]nlp.Entity{}})

	assert.Nil(t, e.Estimate(context.Background(), []string{"lovely place"}, nil, true))

	got := e.Estimate(context.Background(), []string{"lovely place"}, ptr(3), true)
	require.NotNil(t, got)
	assert.Equal(t, 3.0, *got)
}

func TestEstimateFilterKeywordVetoesSentence(t *testing.T) {
	text := "we spent two hours in the queue"
	e := New(&fakeExtractor{entities: map[string][]nlp.Entity{
		text: {{Text: "two hours", Label: nlp.LabelTime}},
	}})

	assert.Nil(t, e.Estimate(context.Background(), []string{text}, nil, false))
}

func TestEstimateIgnoresNonDurationSentences(t *testing.T) {
	text := "the park has three hours of live music"
	e := New(&fakeExtractor{entities: map[string][]nlp.Entity{
		text: {{Text: "three hours", Label: nlp.LabelTime}},
	}})

	// No spend/spent/took keyword, so the sentence never reaches tagging.
	assert.Nil(t, e.Estimate(context.Background(), []string{text}, nil, false))
}

func TestPhraseHours(t *testing.T) {
	tests := []struct {
		phrase string
		want   float64
		ok     bool
	}{
		{"a couple of hours", 2, true},
		{"the whole day", 8, true},
		{"an entire day", 8, true},
		{"a day", 8, true},
		{"all day", 8, true},
		{"the day", 8, true},
		{"one day", 8, true},
		{"hours", 4, true},
		{"several hours", 4, true},
		{"a few hours", 4, true},
		{"an afternoon", 2, true},
		{"the evening", 2, true},
		{"an hour", 1, true},
		{"half a day", 5, true},
		{"90 minutes", 1, true}, // 1.5 ties down to 1
		{"30 minutes", 0.5, true},
		{"45 mins", 0.5, true}, // 0.75 ties down to 0.5
		{"3 hours", 3, true},
		{"2-3 hours", 3, true},
		{"two hours", 2, true},
		{"6 hours", 5, true}, // snapped to the option set
		{"1 day", 8, true},
		{"3 days", 0, false}, // multi-day discarded
		{"nice weather", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			got, ok := PhraseHours(tt.phrase)
			if !tt.ok {
				assert.False(t, ok && got == tt.want)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 0.5, Snap(0.2))
	assert.Equal(t, 1.0, Snap(0.9))
	assert.Equal(t, 2.0, Snap(2.4))
	assert.Equal(t, 5.0, Snap(6.0))
	assert.Equal(t, 8.0, Snap(7.0))
	assert.Equal(t, 8.0, Snap(100))
}

func TestRejectOutliers(t *testing.T) {
	kept := rejectOutliers([]float64{2, 2, 2, 8})
	assert.Equal(t, []float64{2, 2, 2}, kept)

	// Rule would empty the set: keep the originals.
	original := []float64{1, 8}
	assert.Equal(t, original, rejectOutliers(original))

	single := []float64{3}
	assert.Equal(t, single, rejectOutliers(single))
}

func TestReconcileHighPriorityWindow(t *testing.T) {
	// prior 5 gives the window (4, 6); the bounds themselves reject.
	assert.Equal(t, 5.0, *reconcile(6, ptr(5), true))
	assert.Equal(t, 5.0, *reconcile(4, ptr(5), true))
	assert.Equal(t, 4.5, *reconcile(4.5, ptr(5), true))
	assert.Equal(t, 5.0, *reconcile(8, ptr(5), true))
	assert.Equal(t, 5.0, *reconcile(1, ptr(5), true))
}

func TestReconcileLowPriorityCapsFromAbove(t *testing.T) {
	assert.Equal(t, 5.0, *reconcile(8, ptr(5), false))
	assert.Equal(t, 3.0, *reconcile(3, ptr(5), false))
	assert.Equal(t, 0.5, *reconcile(0.5, ptr(5), false))
}

func TestReconcileNoPrior(t *testing.T) {
	assert.Equal(t, 2.0, *reconcile(2, nil, true))
}
