package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/brickwork/internal/catalog"
	"github.com/mmcdole/brickwork/internal/domain"
	"github.com/mmcdole/brickwork/internal/shelf"
	"github.com/mmcdole/brickwork/internal/tui/styles"
)

// Screen chrome: tab bar, header, input line, status and help
const chromeHeight = 6

// rowView is one set line with its list membership
type rowView struct {
	Set    domain.Set
	Owned  bool
	Wished bool
}

// detailView is the immutable input of renderDetail
type detailView struct {
	Set        domain.Set
	Found      bool
	Loading    bool
	Minifigs   []domain.Minifig
	Membership shelf.Membership
}

// screen is everything View renders, computed once per frame
type screen struct {
	Width   int
	Height  int
	Active  Tab
	Header  string
	Input   string
	Rows    []rowView
	Cursor  int
	Detail  *detailView
	Status  string
	IsErr   bool
	Spinner string
	Help    []key.Binding
}

// View renders the application
func (m Model) View() string {
	return renderScreen(m.screen())
}

// screen projects the model into a view model
func (m Model) screen() screen {
	s := screen{
		Width:  m.width,
		Height: m.height,
		Active: m.tab,
		Header: m.header(),
		Cursor: m.cursors[m.tab],
		Status: m.status,
		IsErr:  m.statusIsErr,
		Help:   m.helpKeys(),
	}
	if m.loading {
		s.Spinner = m.spinner.View()
	}

	switch {
	case m.queryInput.Focused():
		s.Input = m.queryInput.View()
	case m.filterActive:
		s.Input = m.filterInput.View()
	}

	if m.detail != nil {
		s.Detail = &detailView{
			Set:        m.detail.set,
			Found:      m.detail.found,
			Loading:    m.detail.loading,
			Minifigs:   m.detail.minifigs,
			Membership: m.session.Shelf.Membership(m.detail.setNum),
		}
		return s
	}

	sets := m.visibleSets()
	s.Rows = make([]rowView, len(sets))
	for i, set := range sets {
		mem := m.session.Shelf.Membership(set.SetNum)
		s.Rows[i] = rowView{Set: set, Owned: mem.Owned, Wished: mem.Wished}
	}
	return s
}

func (m Model) header() string {
	switch m.tab {
	case TabArrivals:
		return "Newest sets this year"
	case TabSearch:
		if !m.search.ran {
			return "Press e to search the catalog"
		}
		return searchHeader(m.search)
	}
	kind, _ := m.tab.listKind()
	st := m.lists[kind]
	return fmt.Sprintf("%d sets · theme: %s · sort: %s", len(st.entries), st.theme, st.sort)
}

func searchHeader(s searchState) string {
	label := fmt.Sprintf("%q", FormatSearchInput(s.filter))
	if s.filter.IsEmpty() {
		label = "all sets"
		if s.filter.Ordering != "" {
			label += " by " + s.filter.Ordering
		}
	}
	pages := (s.result.Count + catalog.SearchPageSize - 1) / catalog.SearchPageSize
	return fmt.Sprintf("%s · %d results · page %d/%d", label, s.result.Count, s.page, max(pages, 1))
}

func (m Model) helpKeys() []key.Binding {
	k := m.keys
	if m.detail != nil {
		return []key.Binding{k.Back, k.Owned, k.Wished, k.OpenSet, k.OpenBrickLink, k.Quit}
	}
	base := []key.Binding{k.NextTab, k.Enter, k.Owned, k.Wished, k.Filter}
	switch m.tab {
	case TabSearch:
		base = append(base, k.EditQuery, k.NextPage, k.PrevPage)
	case TabCollection, TabWishlist:
		base = append(base, k.Sort, k.Theme)
	}
	return append(base, k.Reset, k.Quit)
}

// renderScreen composes the full frame
func renderScreen(s screen) string {
	var b strings.Builder
	b.WriteString(renderTabs(s.Active))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(s.Header))
	b.WriteString("\n\n")

	bodyHeight := s.Height - chromeHeight
	if bodyHeight < 1 {
		bodyHeight = 10
	}
	if s.Detail != nil {
		b.WriteString(renderDetail(*s.Detail, s.Width))
	} else {
		b.WriteString(renderRows(s.Rows, s.Cursor, s.Width, bodyHeight))
	}
	b.WriteString("\n")

	if s.Input != "" {
		b.WriteString(s.Input)
		b.WriteString("\n")
	}
	b.WriteString(renderStatus(s.Status, s.IsErr, s.Spinner))
	b.WriteString("\n")
	b.WriteString(renderHelp(s.Help))
	return b.String()
}

func renderTabs(active Tab) string {
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if Tab(i) == active {
			tabs[i] = styles.ActiveTabStyle.Render(title)
		} else {
			tabs[i] = styles.InactiveTabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderRows draws the window of rows that keeps cursor visible
func renderRows(rows []rowView, cursor, width, height int) string {
	if len(rows) == 0 {
		return styles.DimStyle.Render("  Nothing here yet")
	}

	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(start+height, len(rows))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, renderRow(rows[i], i == cursor, width))
	}
	return strings.Join(lines, "\n")
}

func renderRow(r rowView, selected bool, width int) string {
	mark := " "
	switch {
	case r.Owned:
		mark = styles.OwnedChar
	case r.Wished:
		mark = styles.WishedChar
	}

	meta := fmt.Sprintf("%-10s %4d %5d pcs  %s", r.Set.SetNum, r.Set.Year, r.Set.NumParts, r.Set.ThemeName)
	nameWidth := 36
	if width > 0 {
		nameWidth = max(width-len([]rune(meta))-8, 12)
	}
	text := fmt.Sprintf("%s %-*s %s", mark, nameWidth, styles.Truncate(r.Set.Name, nameWidth), meta)

	if selected {
		return styles.SelectedItemStyle.Render(text)
	}
	return styles.NormalItemStyle.Render(text)
}

// renderDetail draws the detail panel for one set
func renderDetail(d detailView, width int) string {
	if d.Loading {
		return styles.DimStyle.Render("  Loading " + d.Set.SetNum + "...")
	}
	if !d.Found {
		return styles.ErrorStyle.Render("  Set details are unavailable")
	}

	field := func(label, value string) string {
		return styles.LabelStyle.Render(label) + value
	}

	lines := []string{
		styles.TitleStyle.Render(d.Set.Name),
		"",
		field("Number", d.Set.SetNum),
		field("Year", fmt.Sprint(d.Set.Year)),
		field("Theme", d.Set.ThemeName),
		field("Parts", fmt.Sprint(d.Set.NumParts)),
		field("Minifigs", fmt.Sprint(minifigCount(d.Minifigs))),
		field("Status", membershipLabel(d.Membership)),
	}
	for _, fig := range d.Minifigs {
		lines = append(lines, styles.DimStyle.Render(fmt.Sprintf("  %dx %s", fig.Quantity, fig.Name)))
	}

	style := styles.DetailStyle
	if width > 4 {
		style = style.Width(width - 4)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func renderStatus(status string, isErr bool, spin string) string {
	text := status
	if spin != "" {
		text = spin + " " + text
	}
	if isErr {
		return styles.ErrorStyle.Render(text)
	}
	return styles.AccentStyle.Render(text)
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// minifigCount sums quantities; a set may include several copies of one figure
func minifigCount(figs []domain.Minifig) int {
	n := 0
	for _, f := range figs {
		n += max(f.Quantity, 1)
	}
	return n
}

func membershipLabel(m shelf.Membership) string {
	switch {
	case m.Owned:
		return styles.OwnedMark + " owned"
	case m.Wished:
		return styles.WishedMark + " on wishlist"
	default:
		return "-"
	}
}
