package domain

import (
	"context"
	"time"
)

// Column describes one column of the host data view. Roles is the set of
// semantic roles the host declared for the column; most columns declare one.
type Column struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// TableSnapshot is the flat JSON structure the host publishes per update
// cycle: column metadata plus rows of raw cells aligned to the column list.
type TableSnapshot struct {
	TableID string   `json:"table_id"`
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// RawSnapshot represents an unprocessed message from the source topic.
type RawSnapshot struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// FacilityRecord is one decoded row of the source table. Nil pointer fields
// mean the host supplied a null cell or never declared the role.
type FacilityRecord struct {
	Company      *string `json:"company,omitempty"`
	Region       *string `json:"region,omitempty"`
	State        *string `json:"state,omitempty"`
	Country      *string `json:"country,omitempty"`
	DocumentLink *string `json:"document_link,omitempty"`
	Launch       *string `json:"launch,omitempty"`
	Color        *string `json:"color,omitempty"`
	Highlights   *string `json:"highlights,omitempty"`
	HeaderImage  *string `json:"header_image,omitempty"`
	FooterImage  *string `json:"footer_image,omitempty"`

	// SelectionID is the opaque host-correlated handle, issued exactly once
	// per row in row order.
	SelectionID string `json:"selection_id"`
}
