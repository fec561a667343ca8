package scheduler

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"
)

// EnrichmentRequest asks for one trackdb, or all of them when TrackdbIDs is
// empty, to be enriched.
type EnrichmentRequest struct {
	RequestID  string `json:"request_id"`
	TrackdbIDs []uint `json:"trackdb_ids,omitempty"`
}

func (r *EnrichmentRequest) All() bool {
	return len(r.TrackdbIDs) == 0
}

// EnrichmentReport is published once a request has been processed.
type EnrichmentReport struct {
	RequestID  string `json:"request_id"`
	Processed  int    `json:"processed"`
	Failed     []uint `json:"failed"`
	DurationMs int64  `json:"duration_ms"`
	// Set when the run could not start at all, e.g. the store is down.
	Error string `json:"error,omitempty"`
}

func (r *EnrichmentReport) Succeeded() int {
	return r.Processed - len(r.Failed)
}

// NewMessage wraps payload as JSON in a watermill message.
func NewMessage(payload interface{}) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode event")
	}
	return message.NewMessage(watermill.NewUUID(), data), nil
}

// DecodeMessage reads a JSON payload written by NewMessage.
func DecodeMessage(msg *message.Message, out interface{}) error {
	return errors.Wrapf(json.Unmarshal(msg.Payload, out), "decode event %s", msg.UUID)
}
