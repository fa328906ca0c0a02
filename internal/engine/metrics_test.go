package engine

import (
	"testing"

	"github.com/verte-zerg/typesprint/internal/model"
)

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(nil)
	if m != (model.Metrics{}) {
		t.Fatalf("expected zero metrics, got %+v", m)
	}
}

func TestComputeMetricsCountsCorrectWordsOnly(t *testing.T) {
	words := []model.CompletedWord{
		{Word: "hello", Correct: true},
		{Word: "world", Correct: false},
		{Word: "café", Correct: true},
	}
	m := ComputeMetrics(words)
	if m.WPM != 2 {
		t.Fatalf("expected wpm 2, got %d", m.WPM)
	}
	if m.CPM != 9 {
		t.Fatalf("expected cpm 9, got %d", m.CPM)
	}
	if m.Accuracy != 67 {
		t.Fatalf("expected accuracy 67, got %d", m.Accuracy)
	}
}

func TestComputeMetricsAccuracyBounds(t *testing.T) {
	cases := []struct {
		words []model.CompletedWord
		want  int
	}{
		{[]model.CompletedWord{{Word: "a", Correct: false}}, 0},
		{[]model.CompletedWord{{Word: "a", Correct: true}}, 100},
		{[]model.CompletedWord{{Word: "a", Correct: true}, {Word: "b", Correct: false}}, 50},
		{[]model.CompletedWord{{Word: "a", Correct: true}, {Word: "b", Correct: false}, {Word: "c", Correct: false}}, 33},
	}
	for _, tc := range cases {
		got := ComputeMetrics(tc.words).Accuracy
		if got != tc.want {
			t.Fatalf("accuracy for %+v: expected %d, got %d", tc.words, tc.want, got)
		}
	}
}
