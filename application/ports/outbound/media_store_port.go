package outbound

import "context"

// MediaStorePort uploads one generated media object and resolves the URL a
// learner will use: public for a public bucket, presigned otherwise.
type MediaStorePort interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
