package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImageSizes holds the on-disk byte sizes of a stored image and its thumbnail.
type ImageSizes struct {
	Full  int64 `json:"full"`
	Thumb int64 `json:"thumb"`
}

// IngestionResult maps stored filenames to their sizes. It keeps insertion
// order when encoded to JSON. The zero value is ready to use.
type IngestionResult struct {
	names []string
	sizes map[string]ImageSizes
}

func NewIngestionResult() *IngestionResult {
	return &IngestionResult{}
}

// Add records sizes for name. Re-adding a name replaces its sizes but keeps
// its original position.
func (r *IngestionResult) Add(name string, sizes ImageSizes) {
	if r.sizes == nil {
		r.sizes = make(map[string]ImageSizes)
	}
	if _, ok := r.sizes[name]; !ok {
		r.names = append(r.names, name)
	}
	r.sizes[name] = sizes
}

func (r *IngestionResult) Get(name string) (ImageSizes, bool) {
	s, ok := r.sizes[name]
	return s, ok
}

func (r *IngestionResult) Len() int {
	return len(r.names)
}

// Names returns the recorded filenames in insertion order.
func (r *IngestionResult) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *IngestionResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.sizes[name])
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (r *IngestionResult) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ingestion result: expected object, got %v", tok)
	}

	*r = IngestionResult{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("ingestion result: expected name, got %v", tok)
		}

		var sizes ImageSizes
		if err = dec.Decode(&sizes); err != nil {
			return err
		}
		r.Add(name, sizes)
	}

	_, err = dec.Token()
	return err
}

// Source tells where an ingested image came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// IngestedEvent is published once per stored image after its batch succeeds.
type IngestedEvent struct {
	BatchID    uuid.UUID `json:"batch_id"`
	Source     Source    `json:"source"`
	Name       string    `json:"name"`
	URL        string    `json:"url,omitempty"`
	Full       int64     `json:"full"`
	Thumb      int64     `json:"thumb"`
	IngestedAt time.Time `json:"ingested_at"`
}
