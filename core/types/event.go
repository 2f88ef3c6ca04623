package types

// Event is the broadcast form of a ledger state transition: a type tag plus
// flat string attributes that indexers can consume without knowing the Go
// payload types.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// Attr returns the named attribute, or "" when absent.
func (e *Event) Attr(key string) string {
	if e == nil || e.Attributes == nil {
		return ""
	}
	return e.Attributes[key]
}
