package aisafety

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Metadata describes a single publisher run.
type Metadata struct {
	Timestamp time.Time
	BaseURL   string
	Publisher string
	RunID     string
}

// MarshalJSON encodes the metadata with a stable key order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return EncodeFields([]Field{
		{Key: "timestamp", Value: m.Timestamp.Format(time.RFC3339)},
		{Key: "base_url", Value: m.BaseURL},
		{Key: "publisher", Value: m.Publisher},
		{Key: "run_id", Value: m.RunID},
	})
}

// Output is the aggregate document for one publisher run. It maps
// section names to a single record, null, a list of records, or an
// arbitrary JSON value. Sections keep their declaration order.
type Output struct {
	Metadata Metadata

	sections []Field
}

// NewOutput returns an empty output with its metadata populated.
func NewOutput(m Metadata) *Output {
	return &Output{Metadata: m}
}

func (o *Output) index(name string) int {
	for i, f := range o.sections {
		if f.Key == name {
			return i
		}
	}
	return -1
}

// Declare pre-initialises a section: an empty list when list is true,
// null otherwise. Declaring an existing section is a no-op.
func (o *Output) Declare(name string, list bool) {
	if o.index(name) >= 0 {
		return
	}
	var value any = (*Record)(nil)
	if list {
		value = []*Record{}
	}
	o.sections = append(o.sections, Field{Key: name, Value: value})
}

// Set replaces the value of a section, adding it when missing.
func (o *Output) Set(name string, value any) {
	if i := o.index(name); i >= 0 {
		o.sections[i].Value = value
		return
	}
	o.sections = append(o.sections, Field{Key: name, Value: value})
}

// SetPage stores a single-record section. A nil record serializes as null.
func (o *Output) SetPage(name string, r *Record) {
	o.Set(name, r)
}

// Append adds a record to a list section, declaring it when missing.
func (o *Output) Append(name string, r *Record) {
	o.Declare(name, true)
	i := o.index(name)
	list, _ := o.sections[i].Value.([]*Record)
	o.sections[i].Value = append(list, r)
}

// Get returns the raw value of a section.
func (o *Output) Get(name string) (any, bool) {
	if i := o.index(name); i >= 0 {
		return o.sections[i].Value, true
	}
	return nil, false
}

// Page returns a single-record section, or nil.
func (o *Output) Page(name string) *Record {
	v, _ := o.Get(name)
	r, _ := v.(*Record)
	return r
}

// List returns a list section, or nil.
func (o *Output) List(name string) []*Record {
	v, _ := o.Get(name)
	list, _ := v.([]*Record)
	return list
}

// Sections returns section names in declaration order.
func (o *Output) Sections() []string {
	names := make([]string, len(o.sections))
	for i, f := range o.sections {
		names[i] = f.Key
	}
	return names
}

// MarshalJSON encodes metadata followed by sections in order.
func (o *Output) MarshalJSON() ([]byte, error) {
	fields := make([]Field, 0, len(o.sections)+1)
	fields = append(fields, Field{Key: "metadata", Value: o.Metadata})
	fields = append(fields, o.sections...)
	return EncodeFields(fields)
}

// OutputFilename derives the persisted filename from a base URL: the
// host with dots replaced by underscores, suffixed "_data.json".
func OutputFilename(baseURL string) string {
	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return strings.ReplaceAll(host, ".", "_") + "_data.json"
}

// OutputStore persists aggregate output documents.
type OutputStore interface {
	// Save writes the output to path. An empty path derives the filename
	// with OutputFilename. Returns the path written.
	Save(ctx context.Context, out *Output, path string) (string, error)
}
