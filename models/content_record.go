// SPDX-License-Identifier: Apache-2.0

package models

import (
	"encoding/json"
	"time"
)

// RecordKind defines the semantic type of a content block on the hub page.
// The value determines how the rest of the record must be interpreted.
type RecordKind string

const (
	// KindText represents a free-form text block.
	KindText RecordKind = "text"

	// KindLink represents a bookmark block pointing at an external URL.
	KindLink RecordKind = "link"

	// KindImage represents an image block; Image holds the image reference.
	KindImage RecordKind = "image"

	// KindNote represents a long-form note with a title and body.
	KindNote RecordKind = "note"
)

// RecordSize describes how many grid columns and rows a block occupies.
// Layout itself is owned by the UI; the vault only round-trips the value.
type RecordSize struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// ContentRecord is a single block on the hub page. The vault treats it as
// an opaque unit: records are serialized and encrypted whole, never
// field-by-field.
//
// Fields not known to this version of the model survive a decode/encode
// round-trip through Extra, so a newer client's records are not silently
// stripped by an older one.
type ContentRecord struct {
	// ID is unique within a folder. Generated once at creation, never reused.
	ID string

	// Kind tags which of the optional fields below are meaningful.
	Kind RecordKind

	// Size is the display size descriptor for the grid.
	Size RecordSize

	Title string
	Text  string
	URL   string
	Image string
	Tags  []string

	// UpdatedAt is the last modification time, UTC.
	UpdatedAt time.Time

	// Extra carries unknown JSON fields opaquely. Never inspected.
	Extra map[string]json.RawMessage
}

// knownRecordFields are the JSON keys owned by contentRecordJSON. Anything
// else lands in Extra on unmarshal and is re-emitted on marshal.
var knownRecordFields = map[string]struct{}{
	"id": {}, "kind": {}, "size": {}, "title": {}, "text": {},
	"url": {}, "image": {}, "tags": {}, "updated_at": {},
}

// contentRecordJSON is the wire shape of ContentRecord.
type contentRecordJSON struct {
	ID        string     `json:"id"`
	Kind      RecordKind `json:"kind"`
	Size      RecordSize `json:"size"`
	Title     string     `json:"title,omitempty"`
	Text      string     `json:"text,omitempty"`
	URL       string     `json:"url,omitempty"`
	Image     string     `json:"image,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MarshalJSON emits the known fields plus any Extra fields preserved from a
// previous unmarshal. A known field always wins over a stale Extra entry
// with the same key.
func (r ContentRecord) MarshalJSON() ([]byte, error) {
	wire := contentRecordJSON{
		ID:    r.ID,
		Kind:  r.Kind,
		Size:  r.Size,
		Title: r.Title,
		Text:  r.Text,
		URL:   r.URL,
		Image: r.Image,
		Tags:  r.Tags,
	}
	if !r.UpdatedAt.IsZero() {
		ts := r.UpdatedAt
		wire.UpdatedAt = &ts
	}

	base, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(r.Extra)+len(knownRecordFields))
	for k, v := range r.Extra {
		if _, known := knownRecordFields[k]; known {
			continue
		}
		merged[k] = v
	}

	var own map[string]json.RawMessage
	if err := json.Unmarshal(base, &own); err != nil {
		return nil, err
	}
	for k, v := range own {
		merged[k] = v
	}

	return json.Marshal(merged)
}

// UnmarshalJSON decodes the known fields and stashes everything else in
// Extra so it can be re-emitted verbatim later.
func (r *ContentRecord) UnmarshalJSON(data []byte) error {
	var wire contentRecordJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	var extra map[string]json.RawMessage
	for k, v := range all {
		if _, known := knownRecordFields[k]; known {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}

	r.ID = wire.ID
	r.Kind = wire.Kind
	r.Size = wire.Size
	r.Title = wire.Title
	r.Text = wire.Text
	r.URL = wire.URL
	r.Image = wire.Image
	r.Tags = wire.Tags
	if wire.UpdatedAt != nil {
		r.UpdatedAt = *wire.UpdatedAt
	} else {
		r.UpdatedAt = time.Time{}
	}
	r.Extra = extra

	return nil
}
