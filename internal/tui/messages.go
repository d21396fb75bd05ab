package tui

import (
	"github.com/mmcdole/brickwork/internal/catalog"
	"github.com/mmcdole/brickwork/internal/domain"
	"github.com/mmcdole/brickwork/internal/shelf"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ArrivalsLoadedMsg signals that the new arrivals listing is ready
type ArrivalsLoadedMsg struct {
	Sets []domain.Set
}

// SearchLoadedMsg signals that a catalog search page is ready
type SearchLoadedMsg struct {
	Filter catalog.SearchFilter
	Page   int
	Result domain.Page
}

// ListLoadedMsg signals that a personal list has been resolved to set details
type ListLoadedMsg struct {
	Kind    string
	Entries []shelf.Entry
}

// DetailLoadedMsg signals that details for one set are ready
type DetailLoadedMsg struct {
	SetNum   string
	Set      domain.Set
	Found    bool
	Minifigs []domain.Minifig
}

// MembershipChangedMsg signals that a set moved into or out of a list
type MembershipChangedMsg struct {
	SetNum     string
	Membership shelf.Membership
}

// LinkOpenedMsg signals that a URL was handed to the browser
type LinkOpenedMsg struct {
	URL string
}

// CacheResetMsg signals that the session cache was dropped
type CacheResetMsg struct{}
