package domain

// Reserved pseudo-collections holding schema refs.
const (
	CollectionsCollection = "collections"
	IndexesCollection     = "indexes"
)

// Ref identifies a collection, an index, or a document. Schema refs live in the
// reserved pseudo-collections; document refs carry the user collection name.
type Ref struct {
	ID         string `json:"id" msgpack:"id"`
	Collection string `json:"collection" msgpack:"collection"`
}

// CollectionRef returns the schema ref of a collection
func CollectionRef(name string) Ref {
	return Ref{ID: name, Collection: CollectionsCollection}
}

// IndexRef returns the schema ref of an index
func IndexRef(name string) Ref {
	return Ref{ID: name, Collection: IndexesCollection}
}

// DocumentRef returns the ref of a document in a user collection
func DocumentRef(collection, id string) Ref {
	return Ref{ID: id, Collection: collection}
}

// IsZero reports whether the ref is unset
func (r Ref) IsZero() bool {
	return r.ID == "" && r.Collection == ""
}

func (r Ref) String() string {
	return r.Collection + "/" + r.ID
}

// Document represents a stored document: its ref, last write timestamp
// (unix microseconds) and the user payload.
type Document struct {
	Ref  Ref                    `json:"ref" msgpack:"ref"`
	TS   int64                  `json:"ts" msgpack:"ts"`
	Data map[string]interface{} `json:"data" msgpack:"data"`
}

// CollectionInfo is the backend's description of a collection
type CollectionInfo struct {
	Ref  Ref    `json:"ref" msgpack:"ref"`
	Name string `json:"name" msgpack:"name"`
	TS   int64  `json:"ts" msgpack:"ts"`
}

// LessID orders backend-assigned decimal ids numerically. Ids of differing
// length compare by length first, so "9" sorts before "10".
func LessID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
