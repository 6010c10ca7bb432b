package storage

import (
	"context"
	"io"
)

// ResourceKind distinguishes image from generic-binary handling in the
// backend (key prefix and content type).
type ResourceKind string

const (
	ResourceKindImage ResourceKind = "image"
	ResourceKindRaw   ResourceKind = "raw"
)

// StoredObject is the fully usable result of a successful Store: an opaque
// reference for later destruction plus a public URL. There is no intermediate
// state — Store yields this or an error.
type StoredObject struct {
	Ref string
	URL string
}

// Gateway abstracts the external durable blob store. Both operations hit the
// network and are the only external suspension points in a request; failures
// must propagate to the caller, never be swallowed.
type Gateway interface {
	Store(ctx context.Context, r io.Reader, folder string, kind ResourceKind) (*StoredObject, error)
	Destroy(ctx context.Context, ref string, kind ResourceKind) error
}
