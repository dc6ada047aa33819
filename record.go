package aisafety

import (
	"bytes"
	"encoding/json"
	"time"
)

// Link is a hyperlink found on a page. Href is always absolute.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Field is a named value in an ordered JSON object.
type Field struct {
	Key   string
	Value any
}

// RecordKind distinguishes fixed pages from individual content pages.
type RecordKind int

const (
	// PageRecord is a fixed, well-known page such as home or about.
	// Page records carry no title or date.
	PageRecord RecordKind = iota

	// ContentRecord is an individual article, post or publication.
	ContentRecord
)

// Record is the normalized extraction of a single page.
//
// URL, Timestamp, Content and Headings are always serialized. Title and
// Date are serialized for content records only. Links are serialized
// when non-nil. Extra holds publisher-specific fields (authors,
// category, research_areas, ...) in insertion order.
type Record struct {
	Kind      RecordKind
	URL       string
	Timestamp time.Time
	Title     string
	Date      *string
	Content   string
	Headings  []string
	Links     []Link
	Extra     []Field
}

// NewPageRecord returns an empty record for a fixed page.
func NewPageRecord(url string, ts time.Time) *Record {
	return &Record{Kind: PageRecord, URL: url, Timestamp: ts}
}

// NewContentRecord returns an empty record for a content page.
func NewContentRecord(url string, ts time.Time) *Record {
	return &Record{Kind: ContentRecord, URL: url, Timestamp: ts}
}

// SetDate sets the raw date string. An empty string clears it.
func (r *Record) SetDate(date string) {
	if date == "" {
		r.Date = nil
		return
	}
	r.Date = &date
}

// Set replaces the extension field named key, or appends it.
func (r *Record) Set(key string, value any) {
	for i := range r.Extra {
		if r.Extra[i].Key == key {
			r.Extra[i].Value = value
			return
		}
	}
	r.Extra = append(r.Extra, Field{Key: key, Value: value})
}

// Get returns the extension field named key.
func (r *Record) Get(key string) (any, bool) {
	for _, f := range r.Extra {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Fields returns the record's fields in serialization order.
func (r *Record) Fields() []Field {
	headings := r.Headings
	if headings == nil {
		headings = []string{}
	}

	fields := []Field{
		{Key: "url", Value: r.URL},
		{Key: "timestamp", Value: r.Timestamp.Format(time.RFC3339)},
	}
	if r.Kind == ContentRecord {
		fields = append(fields,
			Field{Key: "title", Value: r.Title},
			Field{Key: "date", Value: r.Date},
		)
	}
	fields = append(fields,
		Field{Key: "content", Value: r.Content},
		Field{Key: "headings", Value: headings},
	)
	if r.Links != nil {
		fields = append(fields, Field{Key: "links", Value: r.Links})
	}
	return append(fields, r.Extra...)
}

// MarshalJSON encodes the record with a stable key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	return EncodeFields(r.Fields())
}

// EncodeFields encodes fields as a JSON object preserving their order.
// HTML characters are not escaped.
func EncodeFields(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeValue(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := encodeValue(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
