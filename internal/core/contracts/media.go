package contracts

import "context"

// MediaStore uploads a base64 data URI and returns a public URL.
type MediaStore interface {
	Upload(ctx context.Context, dataURI string) (string, error)
}
