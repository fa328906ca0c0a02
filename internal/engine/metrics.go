package engine

import (
	"math"
	"unicode/utf8"

	"github.com/verte-zerg/typesprint/internal/model"
)

// ComputeMetrics derives WPM, CPM, and accuracy from completed words.
// WPM is the count of correct words in the fixed window and CPM sums
// the characters of those words. Accuracy is 0 when nothing was completed.
func ComputeMetrics(words []model.CompletedWord) model.Metrics {
	if len(words) == 0 {
		return model.Metrics{}
	}
	correct := 0
	chars := 0
	for _, w := range words {
		if !w.Correct {
			continue
		}
		correct++
		chars += utf8.RuneCountInString(w.Word)
	}
	accuracy := int(math.Round(100 * float64(correct) / float64(len(words))))
	return model.Metrics{
		WPM:      correct,
		CPM:      chars,
		Accuracy: accuracy,
	}
}
