package auth

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/noteshare/internal/common"
)

// Owned is implemented by resources that belong to one account.
type Owned interface {
	OwnerID() int64
}

// Authorize allows the call only when identity owns the resource.
// It performs no I/O.
func Authorize(ownerID int64, identity Identity) error {
	if ownerID != identity.Subject {
		return common.Forbidden("not the owner")
	}
	return nil
}

// MustExist turns the result of a lookup into a located resource, reporting
// a missing one as common.ErrorNotFound with the given message.
func MustExist[T Owned](res T, err error, notFoundMsg string) (T, error) {
	var zero T
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return zero, common.NotFound(notFoundMsg)
		}
		return zero, err
	}
	return res, nil
}

// MustOwn checks that identity owns an already located resource.
func MustOwn[T Owned](res T, identity Identity) (T, error) {
	var zero T
	if err := Authorize(res.OwnerID(), identity); err != nil {
		return zero, err
	}
	return res, nil
}

// LoadOwned loads a resource and checks ownership, in that order, so a
// missing resource is always NotFound and never Forbidden.
func LoadOwned[T Owned](ctx context.Context, identity Identity, notFoundMsg string,
	load func(ctx context.Context) (T, error)) (T, error) {
	res, err := load(ctx)
	res, err = MustExist(res, err, notFoundMsg)
	if err != nil {
		return res, err
	}
	return MustOwn(res, identity)
}
