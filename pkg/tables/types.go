package tables

import "encoding/json"

// Row is the payload used to create or update a table row. Values maps
// column keys to cell values.
type Row struct {
	Values map[string]any `json:"values" yaml:"values"`
}

// NewRow returns a Row holding a copy of values.
func NewRow(values map[string]any) Row {
	r := Row{Values: make(map[string]any, len(values))}
	for k, v := range values {
		r.Values[k] = v
	}
	return r
}

// ToMap converts the row to its request payload.
func (r Row) ToMap() map[string]any {
	values := r.Values
	if values == nil {
		values = map[string]any{}
	}
	return map[string]any{"values": values}
}

// MarshalJSON encodes the request payload produced by ToMap.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}
