package facematch

import "context"

// Match is a single hit against the enrolled reference collection.
type Match struct {
	FaceID     string  `json:"face_id"`
	ExternalID string  `json:"external_id,omitempty"`
	Similarity float32 `json:"similarity"`
}

// Client exposes the subset of face search functionality used by the
// ingestion flow.
type Client interface {
	// EnsureCollection creates the reference collection if it does not
	// exist yet. Safe to call repeatedly.
	EnsureCollection(ctx context.Context) error
	// Search returns the matches for the image above the similarity
	// threshold, best first. An empty slice means no enrolled face matched.
	Search(ctx context.Context, imageBytes []byte) ([]Match, error)
}
