package fingers

import (
	"errors"

	"github.com/ayusman/fingercount/internal/detector"
)

// HandResult is the classification of one counted hand.
type HandResult struct {
	// Index is the hand's position in the detector output.
	Index  int
	Vector Vector
	Count  int
}

// Result is the aggregate finger count of one frame.
type Result struct {
	Total int
	Hands []HandResult
	// Skipped holds one error per hand that could not be classified.
	Skipped []error
	// Dropped is the number of detections beyond the hand limit.
	Dropped int
}

// Warning joins the skip reports, or returns nil when every hand counted.
func (r Result) Warning() error {
	return errors.Join(r.Skipped...)
}

// Aggregate classifies every hand and sums the raised fingers.
//
// Only the first maxHands hands are considered, in the order the detector
// returned them; no spatial ordering is applied. A maxHands below 1 means
// no limit. A hand that fails classification is skipped and reported in
// Result.Skipped while the remaining hands still count.
func Aggregate(hands []detector.Hand, maxHands int) Result {
	var res Result

	if maxHands > 0 && len(hands) > maxHands {
		res.Dropped = len(hands) - maxHands
		hands = hands[:maxHands]
	}

	for i, hand := range hands {
		v, err := Classify(hand)
		if err != nil {
			var malformed *MalformedHandError
			if errors.As(err, &malformed) {
				malformed.Index = i
			}
			res.Skipped = append(res.Skipped, err)
			continue
		}

		count := v.Count()
		res.Total += count
		res.Hands = append(res.Hands, HandResult{Index: i, Vector: v, Count: count})
	}

	return res
}
