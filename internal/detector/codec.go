package detector

import (
	"encoding/json"
	"fmt"
	"io"
)

// Response is the JSON document the landmark service writes for every frame.
type Response struct {
	RawHands []jsonHand `json:"hands"`
}

// jsonHand represents one hand in the service response.
type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// toHand keeps every point the service reported, so a short list stays
// short and is rejected by the classifier instead of being zero-padded.
func (h jsonHand) toHand() Hand {
	hand := Hand{
		Keypoints:  make([]Keypoint, len(h.Points)),
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	for i, p := range h.Points {
		hand.Keypoints[i] = Keypoint{ID: i, X: p.X, Y: p.Y, Z: p.Z}
	}
	return hand
}

// Hands converts the response into detector hands in service order.
func (r Response) Hands() []Hand {
	hands := make([]Hand, len(r.RawHands))
	for i, h := range r.RawHands {
		hands[i] = h.toHand()
	}
	return hands
}

// ParseResponse decodes a single service reply line.
func ParseResponse(line []byte) ([]Hand, error) {
	var response Response
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return response.Hands(), nil
}

// DecodeHands reads one service reply from r. It is used to replay recorded
// detections offline.
func DecodeHands(r io.Reader) ([]Hand, error) {
	var response Response
	if err := json.NewDecoder(r).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode hands: %w", err)
	}
	return response.Hands(), nil
}
