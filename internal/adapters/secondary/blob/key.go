package blob

import (
	"fmt"
	"path"
	"strings"
)

// cleanKey rejects keys that are empty, absolute or escape the storage root.
func cleanKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is required")
	}
	cleaned := path.Clean(key)
	if strings.HasPrefix(cleaned, "/") || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	if base == "" {
		return key
	}
	return strings.TrimSuffix(base, "/") + "/" + key
}
