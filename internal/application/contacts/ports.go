package contacts

import (
	"context"

	"github.com/baechuer/contacts-service/internal/domain"
)

/*
Repo
----
Contact persistence. Misses are domain.ErrContactNotFound, never a zero value.
List returns contacts ordered by id ascending.
*/
type Repo interface {
	Create(ctx context.Context, in domain.ContactFields) (domain.Contact, error)
	Get(ctx context.Context, id int64) (domain.Contact, error)
	List(ctx context.Context, page domain.Page) ([]domain.Contact, error)
	Update(ctx context.Context, id int64, patch domain.ContactPatch) (domain.Contact, error)
	Delete(ctx context.Context, id int64) error
}
