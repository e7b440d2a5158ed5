package domain

import "strings"

// BlobURL returns the aggregator read URL for a Walrus blob, or "" when the
// blob id is empty.
func BlobURL(aggregator, blobID string) string {
	blobID = strings.TrimSpace(blobID)
	if blobID == "" {
		return ""
	}
	return strings.TrimRight(aggregator, "/") + "/v1/blobs/" + blobID
}
