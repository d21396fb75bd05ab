package shelf

import (
	"fmt"
	"strings"

	"github.com/mmcdole/brickwork/internal/domain"
)

const defaultListingDescription = "The set comes from a private collection."

// Condition describes the state of a set offered for sale.
type Condition struct {
	Bricks       string
	Completeness string
	Instructions string
	Box          string
	Description  string
}

// FilterSellable keeps owned sets whose name or set number contains query,
// ignoring case. An empty query keeps everything.
func FilterSellable(sets []domain.Set, query string) []domain.Set {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return sets
	}

	out := make([]domain.Set, 0, len(sets))
	for _, s := range sets {
		if strings.Contains(strings.ToLower(s.Name), query) || strings.Contains(strings.ToLower(s.SetNum), query) {
			out = append(out, s)
		}
	}
	return out
}

// Listing renders a plain-text sale listing for set.
func Listing(set domain.Set, cond Condition) string {
	desc := strings.TrimSpace(cond.Description)
	if desc == "" {
		desc = defaultListingDescription
	}

	var b strings.Builder
	fmt.Fprintf(&b, "For sale: LEGO set %s - %s\n\n", set.SetNum, set.Name)
	b.WriteString("CONDITION:\n")
	fmt.Fprintf(&b, "- Bricks: %s\n", cond.Bricks)
	fmt.Fprintf(&b, "- Completeness: %s\n", cond.Completeness)
	fmt.Fprintf(&b, "- Instructions: %s\n", cond.Instructions)
	fmt.Fprintf(&b, "- Box: %s\n\n", cond.Box)
	b.WriteString("DESCRIPTION:\n")
	b.WriteString(desc)
	b.WriteString("\n\nGet in touch if you are interested!")
	return b.String()
}
