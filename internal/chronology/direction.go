package chronology

import (
	"fjacquet/stmt-clean/internal/dateutils"
	"fjacquet/stmt-clean/internal/models"
)

// InferDirection decides whether a ledger's dates run forward or backward
// in time. Valid dates of non-blank rows are de-duplicated keeping first
// occurrences; each consecutive pair and the first-versus-last pair votes.
// Ties, and ledgers with fewer than two distinct dates, are ascending.
func InferDirection(l *models.Ledger) models.Direction {
	return inferDirection(newWorkspace(l))
}

func inferDirection(w *workspace) models.Direction {
	seen := make(map[dateutils.Date]bool)
	var dates []dateutils.Date
	for k := 0; k < w.len(); k++ {
		if d, ok := w.date(k); ok && !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	if len(dates) < 2 {
		return models.Ascending
	}

	asc, desc := 0, 0
	vote := func(a, b dateutils.Date) {
		switch a.Compare(b) {
		case -1:
			asc++
		case 1:
			desc++
		}
	}
	for i := 1; i < len(dates); i++ {
		vote(dates[i-1], dates[i])
	}
	vote(dates[0], dates[len(dates)-1])

	if asc >= desc {
		return models.Ascending
	}
	return models.Descending
}
