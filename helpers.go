package servagri

import (
	"encoding/json"
	"strings"
)

// encodeImageList serializes an image list for the projects.images column.
// A nil slice encodes as an empty array so the column stays NOT NULL.
func encodeImageList(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeImageList parses a projects.images column value.
func decodeImageList(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var images []string
	if err := json.Unmarshal([]byte(s), &images); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, nil
	}
	return images, nil
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
