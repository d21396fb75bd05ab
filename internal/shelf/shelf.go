package shelf

import (
	"log/slog"

	"github.com/mmcdole/brickwork/internal/domain"
)

// Membership is the state of one set across both lists
type Membership struct {
	Owned  bool
	Wished bool
}

// Shelf coordinates the collection and wishlist. A set is never in both:
// moving it into one list takes it out of the other.
type Shelf struct {
	Collection *List
	Wishlist   *List
	logger     *slog.Logger
}

// New creates a shelf with both lists backed by store
func New(store domain.Store, logger *slog.Logger) *Shelf {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shelf{
		Collection: NewList(store, KeyCollection, logger),
		Wishlist:   NewList(store, KeyWishlist, logger),
		logger:     logger,
	}
}

// Membership reports where setNum currently lives
func (s *Shelf) Membership(setNum string) Membership {
	return Membership{
		Owned:  s.Collection.Has(setNum),
		Wished: s.Wishlist.Has(setNum),
	}
}

// ToggleOwned flips collection membership, clearing the wishlist entry
// when the set becomes owned.
func (s *Shelf) ToggleOwned(setNum string) (Membership, error) {
	return s.toggle(setNum, s.Collection, s.Wishlist)
}

// ToggleWished flips wishlist membership, clearing the collection entry
// when the set becomes wished for.
func (s *Shelf) ToggleWished(setNum string) (Membership, error) {
	return s.toggle(setNum, s.Wishlist, s.Collection)
}

func (s *Shelf) toggle(setNum string, into, other *List) (Membership, error) {
	added, err := into.Toggle(setNum)
	if err != nil {
		return s.Membership(setNum), err
	}
	if added && other.Has(setNum) {
		if err := other.Remove(setNum); err != nil {
			return s.Membership(setNum), err
		}
		s.logger.Info("moved set between lists", "setNum", setNum, "from", other.Key(), "to", into.Key())
	}
	return s.Membership(setNum), nil
}

// List returns the list for kind ("collection" or "wishlist")
func (s *Shelf) List(kind string) (*List, bool) {
	switch kind {
	case KeyCollection:
		return s.Collection, true
	case KeyWishlist:
		return s.Wishlist, true
	default:
		return nil, false
	}
}
