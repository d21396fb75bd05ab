package tui

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/brickwork/internal/catalog"
	"github.com/mmcdole/brickwork/internal/domain"
	"github.com/mmcdole/brickwork/internal/service"
	"github.com/mmcdole/brickwork/internal/shelf"
	"github.com/mmcdole/brickwork/internal/tui/styles"
)

// Tab is one of the top-level views
type Tab int

const (
	TabArrivals Tab = iota
	TabSearch
	TabCollection
	TabWishlist
	tabCount
)

var tabTitles = [tabCount]string{"New", "Search", "Collection", "Wishlist"}

// listKind returns the shelf key backing a list tab
func (t Tab) listKind() (string, bool) {
	switch t {
	case TabCollection:
		return shelf.KeyCollection, true
	case TabWishlist:
		return shelf.KeyWishlist, true
	}
	return "", false
}

type searchState struct {
	filter catalog.SearchFilter
	page   int
	result domain.Page
	ran    bool
}

type listState struct {
	entries []shelf.Entry
	theme   string
	sort    shelf.SortMode
	loaded  bool
}

type detailState struct {
	setNum   string
	set      domain.Set
	found    bool
	minifigs []domain.Minifig
	loading  bool
}

// Model is the main Bubble Tea model for the application
type Model struct {
	session *service.Session
	keys    KeyMap
	logger  *slog.Logger

	tab     Tab
	cursors [tabCount]int
	width   int
	height  int

	spinner     spinner.Model
	loading     bool
	status      string
	statusIsErr bool

	queryInput   textinput.Model
	filterInput  textinput.Model
	filterActive bool

	arrivals []domain.Set
	search   searchState
	lists    map[string]*listState
	detail   *detailState
}

// NewModel creates a new application model over an open session
func NewModel(sess *service.Session, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.SpinnerStyle),
	)

	query := textinput.New()
	query.Prompt = "search: "
	query.Placeholder = "name or number, year:2023 theme:158 parts:500-1000"
	query.CharLimit = 120

	filter := textinput.New()
	filter.Prompt = "/"
	filter.PromptStyle = styles.FilterPromptStyle
	filter.CharLimit = 60

	return Model{
		session:     sess,
		keys:        Keys,
		logger:      logger,
		spinner:     sp,
		loading:     true,
		queryInput:  query,
		filterInput: filter,
		search:      searchState{page: 1, result: domain.EmptyPage()},
		lists: map[string]*listState{
			shelf.KeyCollection: {theme: shelf.ThemeAll, sort: shelf.SortAddedDesc},
			shelf.KeyWishlist:   {theme: shelf.ThemeAll, sort: shelf.SortAddedDesc},
		},
	}
}

// Init starts the spinner and loads the home view
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, LoadArrivalsCmd(m.session.Catalog))
}

// Update handles incoming messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.queryInput.Width = max(msg.Width-12, 10)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ArrivalsLoadedMsg:
		m.loading = false
		m.arrivals = msg.Sets
		m.clampCursor(TabArrivals)
		return m, nil

	case SearchLoadedMsg:
		m.loading = false
		m.search = searchState{filter: msg.Filter, page: msg.Page, result: msg.Result, ran: true}
		m.cursors[TabSearch] = 0
		if len(msg.Result.Results) == 0 {
			m.setStatus("No sets found")
		} else {
			m.setStatus(fmt.Sprintf("%d sets, page %d", msg.Result.Count, msg.Page))
		}
		return m, nil

	case ListLoadedMsg:
		m.loading = false
		st := m.lists[msg.Kind]
		st.entries = msg.Entries
		st.loaded = true
		if st.theme != shelf.ThemeAll && !slices.Contains(shelf.ThemeNames(st.entries), st.theme) {
			st.theme = shelf.ThemeAll
		}
		if t, ok := tabForKind(msg.Kind); ok {
			m.clampCursor(t)
		}
		return m, nil

	case DetailLoadedMsg:
		m.loading = false
		if m.detail == nil || m.detail.setNum != msg.SetNum {
			return m, nil
		}
		m.detail = &detailState{
			setNum:   msg.SetNum,
			set:      msg.Set,
			found:    msg.Found,
			minifigs: msg.Minifigs,
		}
		return m, nil

	case MembershipChangedMsg:
		m.setStatus(membershipStatus(msg.SetNum, msg.Membership))
		for _, st := range m.lists {
			st.loaded = false
		}
		if kind, ok := m.tab.listKind(); ok && m.detail == nil {
			cmd := m.startLoad(LoadListCmd(m.session, kind))
			return m, cmd
		}
		return m, nil

	case LinkOpenedMsg:
		m.setStatus("Opened " + msg.URL)
		return m, nil

	case CacheResetMsg:
		m.loading = false
		m.setStatus("Cache cleared")
		for _, st := range m.lists {
			st.loaded = false
		}
		cmd := m.reload()
		return m, cmd

	case ErrMsg:
		m.loading = false
		m.logger.Error("tui error", "context", msg.Context, "error", msg.Err)
		m.status = msg.Error()
		m.statusIsErr = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.queryInput.Focused() {
		return m.handleQueryInput(msg)
	}
	if m.filterActive && m.filterInput.Focused() {
		return m.handleFilterInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		if m.detail != nil {
			m.detail = nil
		} else if m.filterActive {
			m.clearFilter()
		}
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		cmd := m.startLoad(ResetCacheCmd(m.session))
		return m, cmd
	}

	// Actions on the selected set work from both the list and the detail view
	set, ok := m.selected()
	if ok {
		switch {
		case key.Matches(msg, m.keys.Owned):
			return m, ToggleCmd(m.session.Shelf, set.SetNum, true)
		case key.Matches(msg, m.keys.Wished):
			return m, ToggleCmd(m.session.Shelf, set.SetNum, false)
		case key.Matches(msg, m.keys.OpenSet):
			return m, OpenLinkCmd(m.session.Launcher, rebrickableURL(set))
		case key.Matches(msg, m.keys.OpenBrickLink):
			return m, OpenLinkCmd(m.session.Launcher, set.BrickLinkURL())
		}
	}

	if m.detail != nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.tab + 1) % tabCount)
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.tab + tabCount - 1) % tabCount)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Enter):
		if ok {
			m.detail = &detailState{setNum: set.SetNum, set: set, loading: true}
			cmd := m.startLoad(LoadDetailCmd(m.session.Catalog, set.SetNum))
			return m, cmd
		}
	case key.Matches(msg, m.keys.Filter):
		m.filterActive = true
		cmd := m.filterInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Reload):
		cmd := m.reload()
		return m, cmd
	}

	switch m.tab {
	case TabSearch:
		return m.handleSearchKey(msg)
	case TabCollection, TabWishlist:
		m.handleListKey(msg)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.EditQuery):
		m.queryInput.SetValue(FormatSearchInput(m.search.filter))
		cmd := m.queryInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.NextPage):
		if m.search.result.HasNext() {
			cmd := m.startLoad(SearchCmd(m.session.Catalog, m.search.filter, m.search.page+1))
			return m, cmd
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.search.result.HasPrevious() && m.search.page > 1 {
			cmd := m.startLoad(SearchCmd(m.session.Catalog, m.search.filter, m.search.page-1))
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) {
	kind, _ := m.tab.listKind()
	st := m.lists[kind]

	switch {
	case key.Matches(msg, m.keys.Sort):
		st.sort = nextSortMode(st.sort)
		m.setStatus("Sorted by " + string(st.sort))
	case key.Matches(msg, m.keys.Theme):
		st.theme = nextTheme(st.theme, shelf.ThemeNames(st.entries))
		m.setStatus("Theme: " + st.theme)
		m.cursors[m.tab] = 0
	}
}

func (m Model) handleQueryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.queryInput.Blur()
		filter := ParseSearchInput(m.queryInput.Value())
		cmd := m.startLoad(SearchCmd(m.session.Catalog, filter, 1))
		return m, cmd
	case tea.KeyEsc:
		m.queryInput.Blur()
		return m, nil
	case tea.KeyTab:
		m.queryInput.Blur()
		return m.switchTab((m.tab + 1) % tabCount)
	case tea.KeyShiftTab:
		m.queryInput.Blur()
		return m.switchTab((m.tab + tabCount - 1) % tabCount)
	}

	var cmd tea.Cmd
	m.queryInput, cmd = m.queryInput.Update(msg)
	return m, cmd
}

func (m Model) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.clearFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.cursors[m.tab] = 0
	return m, cmd
}

// switchTab activates t, loading its content on first visit
func (m Model) switchTab(t Tab) (tea.Model, tea.Cmd) {
	m.tab = t
	m.clearFilter()

	switch t {
	case TabSearch:
		if !m.search.ran {
			cmd := m.queryInput.Focus()
			return m, cmd
		}
	case TabCollection, TabWishlist:
		kind, _ := t.listKind()
		if !m.lists[kind].loaded {
			cmd := m.startLoad(LoadListCmd(m.session, kind))
			return m, cmd
		}
	}
	return m, nil
}

// reload refetches the content of the active tab
func (m *Model) reload() tea.Cmd {
	switch m.tab {
	case TabArrivals:
		return m.startLoad(LoadArrivalsCmd(m.session.Catalog))
	case TabSearch:
		if m.search.ran {
			return m.startLoad(SearchCmd(m.session.Catalog, m.search.filter, m.search.page))
		}
	case TabCollection, TabWishlist:
		kind, _ := m.tab.listKind()
		return m.startLoad(LoadListCmd(m.session, kind))
	}
	return nil
}

// startLoad marks the model busy and restarts the spinner alongside cmd
func (m *Model) startLoad(cmd tea.Cmd) tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Tick, cmd)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusIsErr = false
}

func (m *Model) clearFilter() {
	m.filterActive = false
	m.filterInput.SetValue("")
	m.filterInput.Blur()
}

func (m *Model) moveCursor(delta int) {
	n := len(m.visibleSets())
	c := m.cursors[m.tab] + delta
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	m.cursors[m.tab] = c
}

func (m *Model) clampCursor(t Tab) {
	if t != m.tab {
		return
	}
	m.moveCursor(0)
}

// tabSets returns the unfiltered content of the active tab
func (m Model) tabSets() []domain.Set {
	switch m.tab {
	case TabArrivals:
		return m.arrivals
	case TabSearch:
		return m.search.result.Results
	}

	kind, _ := m.tab.listKind()
	st := m.lists[kind]
	entries := shelf.View(st.entries, st.theme, st.sort)
	sets := make([]domain.Set, len(entries))
	for i, e := range entries {
		sets[i] = e.Set
	}
	return sets
}

// visibleSets applies the local filter to the active tab
func (m Model) visibleSets() []domain.Set {
	sets := m.tabSets()
	if !m.filterActive || m.filterInput.Value() == "" {
		return sets
	}
	idx := filterSets(sets, m.filterInput.Value())
	out := make([]domain.Set, len(idx))
	for i, j := range idx {
		out[i] = sets[j]
	}
	return out
}

// selected returns the set under the cursor, or the one shown in detail
func (m Model) selected() (domain.Set, bool) {
	if m.detail != nil {
		if m.detail.set.SetNum == "" {
			return domain.Set{}, false
		}
		return m.detail.set, true
	}
	sets := m.visibleSets()
	c := m.cursors[m.tab]
	if c < 0 || c >= len(sets) {
		return domain.Set{}, false
	}
	return sets[c], true
}

func tabForKind(kind string) (Tab, bool) {
	switch kind {
	case shelf.KeyCollection:
		return TabCollection, true
	case shelf.KeyWishlist:
		return TabWishlist, true
	}
	return 0, false
}

func nextSortMode(current shelf.SortMode) shelf.SortMode {
	i := slices.Index(shelf.SortModes, current)
	return shelf.SortModes[(i+1)%len(shelf.SortModes)]
}

// nextTheme cycles through "all" followed by each theme name
func nextTheme(current string, names []string) string {
	options := append([]string{shelf.ThemeAll}, names...)
	i := slices.Index(options, current)
	return options[(i+1)%len(options)]
}

func rebrickableURL(set domain.Set) string {
	if set.SetURL != "" {
		return set.SetURL
	}
	return "https://rebrickable.com/sets/" + set.SetNum + "/"
}

func membershipStatus(setNum string, m shelf.Membership) string {
	switch {
	case m.Owned:
		return setNum + " added to collection"
	case m.Wished:
		return setNum + " added to wishlist"
	default:
		return setNum + " removed from lists"
	}
}
