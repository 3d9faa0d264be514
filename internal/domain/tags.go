package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TagList is the normalised tag collection of an article. The API sends tags
// as an array of strings, as one comma-separated string, or not at all; all
// three decode into the same ordered list of trimmed, non-empty tags.
type TagList []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = TagList{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = ParseTags(s)
		return nil
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*t = normalise(items)
		return nil
	default:
		return fmt.Errorf("tag_list: unsupported JSON value %s", data)
	}
}

// ParseTags splits a comma-separated tag string.
func ParseTags(s string) TagList {
	return normalise(strings.Split(s, ","))
}

// First returns at most n tags.
func (t TagList) First(n int) TagList {
	if n < 0 || len(t) <= n {
		return t
	}
	return t[:n]
}

func normalise(items []string) TagList {
	out := make(TagList, 0, len(items))
	for _, item := range items {
		if tag := strings.TrimSpace(item); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
