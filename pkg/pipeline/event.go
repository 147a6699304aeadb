package pipeline

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
)

// ErrInvalidEvent is returned for events carrying neither bucket/key nor S3 records
var ErrInvalidEvent = errors.New("invalid event structure: expected S3 event or direct invocation with bucket and key")

// Event is a direct invocation ({"bucket": ..., "key": ...}) or an S3
// notification
type Event struct {
	Bucket  *string                `json:"bucket,omitempty"`
	Key     *string                `json:"key,omitempty"`
	Records []events.S3EventRecord `json:"Records,omitempty"`
}

// DecodeEvent parses a raw invocation payload
func DecodeEvent(raw []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return e, nil
}

// Location returns the bucket and the URL-unescaped key of the document to
// process. Direct parameters win over S3 records.
func (e Event) Location() (bucket, key string, err error) {
	switch {
	case e.Bucket != nil && e.Key != nil:
		bucket, key = *e.Bucket, *e.Key
	case len(e.Records) > 0:
		bucket, key = e.Records[0].S3.Bucket.Name, e.Records[0].S3.Object.Key
	default:
		return "", "", ErrInvalidEvent
	}

	if bucket == "" || key == "" {
		return "", "", ErrInvalidEvent
	}
	return bucket, unescapeKey(key), nil
}

// unescapeKey decodes an S3 notification key ('+' is a space). Malformed
// escapes are kept as-is.
func unescapeKey(key string) string {
	decoded, err := url.QueryUnescape(key)
	if err != nil {
		return key
	}
	return decoded
}
