// Package rowstore is a client for a hosted tabular store that speaks the
// Appwrite TablesDB REST API.
package rowstore

import (
	"context"
	"encoding/json"
)

// Client is the subset of the row-store API the directory depends on.
type Client interface {
	ListRows(ctx context.Context, table string, queries ...Query) (RowList, error)
	CreateRow(ctx context.Context, table, rowID string, data map[string]any) (Row, error)
	UpdateRow(ctx context.Context, table, rowID string, data map[string]any) (Row, error)
}

// Query is a single predicate. Only equality is used by this service.
type Query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute"`
	Values    []any  `json:"values"`
}

// Equal builds an equality predicate on a named field.
func Equal(attribute string, value any) Query {
	return Query{Method: "equal", Attribute: attribute, Values: []any{value}}
}

// String returns the JSON form sent as a queries[] parameter.
func (q Query) String() string {
	b, _ := json.Marshal(q)
	return string(b)
}

// Row is a raw row. System attributes carry a "$" prefix ($id, $createdAt, ...).
type Row map[string]json.RawMessage

// ID returns the row's $id attribute.
func (r Row) ID() string {
	var id string
	_ = json.Unmarshal(r["$id"], &id)
	return id
}

// Decode unmarshals the row into dst.
func (r Row) Decode(dst any) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// RowList is the listRows response envelope.
type RowList struct {
	Total int   `json:"total"`
	Rows  []Row `json:"rows"`
}
