package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mmcdole/brickwork/internal/domain"
	"github.com/mmcdole/brickwork/internal/shelf"
)

// setLine pairs a set with its list membership for table output
type setLine struct {
	Set        domain.Set
	Membership shelf.Membership
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers(headers...)
}

func markFor(m shelf.Membership) string {
	switch {
	case m.Owned:
		return "owned"
	case m.Wished:
		return "wish"
	default:
		return ""
	}
}

// renderSets formats sets as a table
func renderSets(lines []setLine) string {
	if len(lines) == 0 {
		return "No sets found."
	}
	t := newTable("SET", "NAME", "YEAR", "PARTS", "THEME", "LIST")
	for _, l := range lines {
		t.Row(
			l.Set.SetNum,
			l.Set.Name,
			strconv.Itoa(l.Set.Year),
			strconv.Itoa(l.Set.NumParts),
			l.Set.ThemeName,
			markFor(l.Membership),
		)
	}
	return t.String()
}

// renderEntries formats list entries with their position in the list
func renderEntries(entries []shelf.Entry) string {
	if len(entries) == 0 {
		return "The list is empty."
	}
	t := newTable("#", "SET", "NAME", "YEAR", "PARTS", "THEME")
	for _, e := range entries {
		t.Row(
			strconv.Itoa(e.AddedIndex+1),
			e.SetNum,
			e.Name,
			strconv.Itoa(e.Year),
			strconv.Itoa(e.NumParts),
			e.ThemeName,
		)
	}
	return t.String()
}

// renderPageFooter summarises a search page
func renderPageFooter(p domain.Page, page, pageSize int) string {
	pages := max((p.Count+pageSize-1)/pageSize, 1)
	s := fmt.Sprintf("Page %d of %d (%d sets)", page, pages, p.Count)
	if p.HasNext() {
		s += fmt.Sprintf(" · next: --page %d", page+1)
	}
	return s
}

// renderSetDetail formats one set with its minifigs
func renderSetDetail(set domain.Set, figs []domain.Minifig, m shelf.Membership) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", set.SetNum, set.Name)
	fmt.Fprintf(&b, "Year:      %d\n", set.Year)
	fmt.Fprintf(&b, "Theme:     %s\n", set.ThemeName)
	fmt.Fprintf(&b, "Parts:     %d\n", set.NumParts)
	if mark := markFor(m); mark != "" {
		fmt.Fprintf(&b, "List:      %s\n", mark)
	}
	if set.SetURL != "" {
		fmt.Fprintf(&b, "Link:      %s\n", set.SetURL)
	}
	fmt.Fprintf(&b, "BrickLink: %s\n", set.BrickLinkURL())

	if len(figs) > 0 {
		b.WriteString("\nMinifigs:\n")
		for _, f := range figs {
			fmt.Fprintf(&b, "  %dx %s\n", f.Quantity, f.Name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderThemes formats theme picker options
func renderThemes(opts []domain.ThemeOption) string {
	if len(opts) == 0 {
		return "No themes available."
	}
	t := newTable("ID", "THEME")
	for _, o := range opts {
		t.Row(strconv.Itoa(o.ID), o.Label)
	}
	return t.String()
}
