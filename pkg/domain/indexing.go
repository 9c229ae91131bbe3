package domain

// IndexDefinition is what the backend needs to build an index. Terms are field
// paths resolved against the document envelope, e.g. "data.email".
type IndexDefinition struct {
	Name   string
	Source string
	Terms  []string
	Unique bool
}

// IndexInfo is the backend's description of an index
type IndexInfo struct {
	Ref    Ref      `json:"ref" msgpack:"ref"`
	Name   string   `json:"name" msgpack:"name"`
	Source Ref      `json:"source" msgpack:"source"`
	Terms  []string `json:"terms,omitempty" msgpack:"terms,omitempty"`
	Unique bool     `json:"unique" msgpack:"unique"`
	Active bool     `json:"active" msgpack:"active"`
	TS     int64    `json:"ts" msgpack:"ts"`
}
