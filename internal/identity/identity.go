// Package identity supplies the caller's identity and the wedding
// ownership check the domain components run before accepting a
// mutation.
package identity

import (
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/repository"
)

// Identity supplies the current caller.
type Identity interface {
	CurrentUser() string
}

// Static is a fixed caller, the single local user from config.
type Static string

func (s Static) CurrentUser() string { return string(s) }

// Guard confirms wedding ownership. Components trust its verdict and
// do not duplicate the check.
type Guard struct {
	weddings *repository.WeddingRepo
	id       Identity
}

func NewGuard(weddings *repository.WeddingRepo, id Identity) *Guard {
	return &Guard{weddings: weddings, id: id}
}

// Authorize returns nil when the caller owns the wedding,
// NotFoundError when the wedding does not exist, and
// AuthorizationError otherwise.
func (g *Guard) Authorize(weddingID int64) error {
	w, err := g.weddings.GetByID(weddingID)
	if err != nil {
		return err
	}
	if w == nil {
		return &models.NotFoundError{Entity: "wedding", ID: weddingID}
	}
	if w.OwnerID != g.id.CurrentUser() {
		return &models.AuthorizationError{Caller: g.id.CurrentUser(), WeddingID: weddingID}
	}
	return nil
}
