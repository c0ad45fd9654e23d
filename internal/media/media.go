// Package media defines the interface for storing uploaded binaries on a
// hosted media service.
//
// The interface lives here and the concrete client lives in media/cloudinary,
// so handlers depend only on this package and tests can substitute a fake.
package media

import "context"

// Uploader stores one binary object and returns its durable public URL.
//
// A call produces exactly one outcome: a URL or an error, never both and
// never more than one of either. Callers write exactly one HTTP response
// from it.
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}
