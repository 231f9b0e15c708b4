package permissions

import "context"

type StoreAPI interface {
	// LoadDocument returns ErrNotStored when nothing has been saved yet.
	LoadDocument(ctx context.Context) (Document, error)
	SaveDocument(ctx context.Context, doc Document, updatedBy string) error
}

var _ StoreAPI = (*Store)(nil)
