package lineitem

import (
	"bytes"
	"encoding/json"
)

// Entry is one stored cart element. Entries that do not decode into a
// LineItem keep their raw bytes and are never matched by a reference.
type Entry struct {
	raw  json.RawMessage
	item *LineItem
}

// Entries is the ordered item collection of a cart.
type Entries []Entry

// NewEntry encodes item for storage.
func NewEntry(item LineItem) (Entry, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return Entry{}, err
	}
	return Entry{raw: raw, item: &item}, nil
}

// DecodeEntries wraps stored elements, tolerating any shape.
func DecodeEntries(raws []json.RawMessage) Entries {
	out := make(Entries, 0, len(raws))
	for _, raw := range raws {
		entry := Entry{raw: append(json.RawMessage(nil), raw...)}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			var item LineItem
			if err := json.Unmarshal(trimmed, &item); err == nil {
				entry.item = &item
			}
		}
		out = append(out, entry)
	}
	return out
}

// Item returns the decoded line item, or false for a malformed entry.
func (e Entry) Item() (LineItem, bool) {
	if e.item == nil {
		return LineItem{}, false
	}
	return *e.item, true
}

func (e Entry) Raw() json.RawMessage {
	return e.raw
}

func (e Entry) matches(refs RefSet) bool {
	return e.item != nil && refs.Contains(e.item.Ref())
}

// Raw returns the storage form of every entry in order.
func (es Entries) Raw() []json.RawMessage {
	out := make([]json.RawMessage, 0, len(es))
	for _, e := range es {
		out = append(out, e.raw)
	}
	return out
}

// Items returns the decoded line items, skipping malformed entries.
func (es Entries) Items() []LineItem {
	out := make([]LineItem, 0, len(es))
	for _, e := range es {
		if item, ok := e.Item(); ok {
			out = append(out, item)
		}
	}
	return out
}

// Without returns the entries not referenced by refs, preserving order.
func (es Entries) Without(refs RefSet) Entries {
	out := make(Entries, 0, len(es))
	for _, e := range es {
		if !e.matches(refs) {
			out = append(out, e)
		}
	}
	return out
}

// Only returns the entries referenced by refs, preserving order.
func (es Entries) Only(refs RefSet) Entries {
	out := make(Entries, 0, len(es))
	for _, e := range es {
		if e.matches(refs) {
			out = append(out, e)
		}
	}
	return out
}

// MarshalJSON renders the raw elements as a JSON array.
func (es Entries) MarshalJSON() ([]byte, error) {
	return json.Marshal(es.Raw())
}
