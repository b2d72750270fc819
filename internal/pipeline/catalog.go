package pipeline

import (
	"sort"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// SortCatalog returns a copy of stages ordered by order key, ties broken by id.
func SortCatalog(stages []domain.Stage) []domain.Stage {
	sorted := append([]domain.Stage(nil), stages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// ActiveCatalog keeps only active stages, sorted by order.
func ActiveCatalog(stages []domain.Stage) []domain.Stage {
	active := make([]domain.Stage, 0, len(stages))
	for _, stage := range stages {
		if stage.Active {
			active = append(active, stage)
		}
	}
	return SortCatalog(active)
}

// FindActive returns the active stage with the given id.
func FindActive(stages []domain.Stage, id string) (domain.Stage, bool) {
	for _, stage := range stages {
		if stage.Active && stage.ID == id {
			return stage, true
		}
	}
	return domain.Stage{}, false
}

// NextStage returns the active stage with the smallest order strictly greater
// than current.Order.
func NextStage(stages []domain.Stage, current domain.Stage) (domain.Stage, bool) {
	var (
		next  domain.Stage
		found bool
	)
	for _, stage := range ActiveCatalog(stages) {
		if stage.Order > current.Order {
			next = stage
			found = true
			break
		}
	}
	return next, found
}

// InitialStage returns the first-order active stage.
func InitialStage(stages []domain.Stage) (domain.Stage, error) {
	active := ActiveCatalog(stages)
	if len(active) == 0 {
		return domain.Stage{}, ErrEmptyCatalog
	}
	return active[0], nil
}
