package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/brickwork/internal/adapter"
	"github.com/mmcdole/brickwork/internal/catalog"
	"github.com/mmcdole/brickwork/internal/service"
	"github.com/mmcdole/brickwork/internal/shelf"
)

// Command factories for async operations

const loadTimeout = 30 * time.Second

// LoadArrivalsCmd loads the newest sets of the current year
func LoadArrivalsCmd(svc *catalog.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		return ArrivalsLoadedMsg{Sets: svc.NewArrivals(ctx)}
	}
}

// SearchCmd runs a catalog search for one page
func SearchCmd(svc *catalog.Service, filter catalog.SearchFilter, page int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		return SearchLoadedMsg{
			Filter: filter,
			Page:   page,
			Result: svc.SearchSets(ctx, filter, page),
		}
	}
}

// LoadListCmd resolves every member of a personal list
func LoadListCmd(sess *service.Session, kind string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second) // 60s for large collections
		defer cancel()

		entries, err := sess.ListEntries(ctx, kind)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading " + kind}
		}
		return ListLoadedMsg{Kind: kind, Entries: entries}
	}
}

// LoadDetailCmd loads one set together with its minifigs
func LoadDetailCmd(svc *catalog.Service, setNum string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		set, ok := svc.SetDetails(ctx, setNum)
		msg := DetailLoadedMsg{SetNum: setNum, Set: set, Found: ok}
		if ok {
			msg.Minifigs = svc.SetMinifigs(ctx, setNum)
		}
		return msg
	}
}

// ToggleCmd flips a set's membership in the collection (owned) or wishlist
func ToggleCmd(sh *shelf.Shelf, setNum string, owned bool) tea.Cmd {
	return func() tea.Msg {
		var (
			m   shelf.Membership
			err error
		)
		if owned {
			m, err = sh.ToggleOwned(setNum)
		} else {
			m, err = sh.ToggleWished(setNum)
		}
		if err != nil {
			return ErrMsg{Err: err, Context: "updating lists"}
		}
		return MembershipChangedMsg{SetNum: setNum, Membership: m}
	}
}

// OpenLinkCmd opens url in the configured browser
func OpenLinkCmd(l *adapter.Launcher, url string) tea.Cmd {
	return func() tea.Msg {
		if err := l.Open(url); err != nil {
			return ErrMsg{Err: err, Context: "opening link"}
		}
		return LinkOpenedMsg{URL: url}
	}
}

// ResetCacheCmd drops the session cache
func ResetCacheCmd(sess *service.Session) tea.Cmd {
	return func() tea.Msg {
		sess.ResetCache()
		return CacheResetMsg{}
	}
}
