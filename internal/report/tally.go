package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"evote/internal/model"
)

// PrintTally renders the candidates of an election as a Markdown table,
// highest vote count first. Ties are ordered by candidate id.
func PrintTally(w io.Writer, e *model.Election) {
	candidates := make([]model.Candidate, len(e.Candidates))
	copy(candidates, e.Candidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Votes != candidates[j].Votes {
			return candidates[i].Votes > candidates[j].Votes
		}
		return candidates[i].CandidateID < candidates[j].CandidateID
	})

	total := e.TotalVotes()
	fmt.Fprintf(w, "%s (%s): %d votes from %d voters\n\n", e.Name, e.Status, total, len(e.Voters))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Candidate", "Votes", "Share"})

	// Markdown table formatting
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAutoFormatHeaders(false)

	for i, c := range candidates {
		table.Append([]string{
			fmt.Sprint(i + 1),
			c.CandidateID,
			fmt.Sprint(c.Votes),
			share(c.Votes, total),
		})
	}

	table.Render()
}

func share(votes, total int64) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(votes)*100/float64(total))
}
