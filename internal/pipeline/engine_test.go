package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func scenarioCatalog() []domain.Stage {
	return []domain.Stage{
		{ID: "1", Name: "Soft Skills", Order: 1, Active: true},
		{ID: "2", Name: "Technical", Order: 2, Active: true},
		{ID: "3", Name: "Client Meeting", Order: 3, Active: true},
	}
}

func TestAdvanceMiddleStage(t *testing.T) {
	state := State{StageID: strPtr("2"), Status: domain.CandidateStatusInProgress}

	tr, err := Advance(state, scenarioCatalog())
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if tr.To.StageID == nil || *tr.To.StageID != "3" {
		t.Fatalf("expected stage 3, got %v", tr.To.StageID)
	}
	if tr.To.Status != domain.CandidateStatusInProgress {
		t.Fatalf("expected in_progress, got %s", tr.To.Status)
	}
	if tr.Action != domain.ActionAdvance {
		t.Fatalf("unexpected action %s", tr.Action)
	}
}

func TestAdvanceLastStageValidates(t *testing.T) {
	state := State{StageID: strPtr("3"), Status: domain.CandidateStatusInProgress}

	tr, err := Advance(state, scenarioCatalog())
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if tr.To.StageID == nil || *tr.To.StageID != "3" {
		t.Fatalf("expected stage to stay 3, got %v", tr.To.StageID)
	}
	if tr.To.Status != domain.CandidateStatusValidated {
		t.Fatalf("expected validated, got %s", tr.To.Status)
	}
	if tr.StageChanged() {
		t.Fatal("stage must not change on the last stage")
	}
}

func TestAdvanceEveryPosition(t *testing.T) {
	for size := 1; size <= 6; size++ {
		catalog := make([]domain.Stage, 0, size)
		// insert in reverse and with sparse orders so position != order
		for i := size; i >= 1; i-- {
			catalog = append(catalog, domain.Stage{ID: fmt.Sprintf("s%d", i), Order: i * 10, Active: true})
		}
		for n := 1; n <= size; n++ {
			state := State{StageID: strPtr(fmt.Sprintf("s%d", n)), Status: domain.CandidateStatusScheduled}
			tr, err := Advance(state, catalog)
			if err != nil {
				t.Fatalf("size %d position %d: %v", size, n, err)
			}
			if n < size {
				want := fmt.Sprintf("s%d", n+1)
				if *tr.To.StageID != want || tr.To.Status != domain.CandidateStatusInProgress {
					t.Fatalf("size %d position %d: got (%s,%s), want (%s,in_progress)", size, n, *tr.To.StageID, tr.To.Status, want)
				}
				continue
			}
			if *tr.To.StageID != *state.StageID || tr.To.Status != domain.CandidateStatusValidated {
				t.Fatalf("size %d last: got (%s,%s)", size, *tr.To.StageID, tr.To.Status)
			}
		}
	}
}

func TestAdvanceSkipsInactiveGaps(t *testing.T) {
	catalog := []domain.Stage{
		{ID: "a", Order: 1, Active: true},
		{ID: "b", Order: 2, Active: false},
		{ID: "c", Order: 5, Active: true},
	}
	tr, err := Advance(State{StageID: strPtr("a"), Status: domain.CandidateStatusScheduled}, catalog)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if *tr.To.StageID != "c" {
		t.Fatalf("expected to skip inactive stage, got %s", *tr.To.StageID)
	}
}

func TestAdvanceUsesOrderNotPosition(t *testing.T) {
	// reordered: "late" was created first but now sorts last
	catalog := []domain.Stage{
		{ID: "late", Order: 30, Active: true},
		{ID: "first", Order: 10, Active: true},
		{ID: "middle", Order: 20, Active: true},
	}
	tr, err := Advance(State{StageID: strPtr("first"), Status: domain.CandidateStatusInProgress}, catalog)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if *tr.To.StageID != "middle" {
		t.Fatalf("expected middle, got %s", *tr.To.StageID)
	}
}

func TestAdvanceEmptyCatalog(t *testing.T) {
	_, err := Advance(State{StageID: strPtr("1")}, nil)
	if !errors.Is(err, ErrStageNotFound) {
		t.Fatalf("expected ErrStageNotFound, got %v", err)
	}

	inactiveOnly := []domain.Stage{{ID: "1", Order: 1, Active: false}}
	if _, err := Advance(State{StageID: strPtr("1")}, inactiveOnly); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestAdvanceUnknownOrDeactivatedStage(t *testing.T) {
	catalog := scenarioCatalog()
	catalog[1].Active = false

	cases := map[string]State{
		"deactivated": {StageID: strPtr("2"), Status: domain.CandidateStatusInProgress},
		"unknown":     {StageID: strPtr("99"), Status: domain.CandidateStatusInProgress},
		"unassigned":  {Status: domain.CandidateStatusScheduled},
	}
	for name, state := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Advance(state, catalog)
			if !errors.Is(err, ErrStageNotFound) {
				t.Fatalf("expected ErrStageNotFound, got %v", err)
			}
		})
	}
}

func TestRejectFromAnyState(t *testing.T) {
	for _, status := range domain.CandidateStatuses {
		for _, stage := range []*string{nil, strPtr("1"), strPtr("3")} {
			state := State{StageID: stage, Status: status}
			tr := Reject(state)
			if tr.To.Status != domain.CandidateStatusRejected {
				t.Fatalf("from %s: expected rejected, got %s", status, tr.To.Status)
			}
			if tr.StageChanged() {
				t.Fatalf("from %s: reject must not move the stage", status)
			}
		}
	}
}

func TestRejectValidatedScenario(t *testing.T) {
	state := State{StageID: strPtr("1"), Status: domain.CandidateStatusValidated}
	tr := Reject(state)
	if tr.To.Status != domain.CandidateStatusRejected || *tr.To.StageID != "1" {
		t.Fatalf("unexpected result (%v,%s)", tr.To.StageID, tr.To.Status)
	}
}

func TestReopen(t *testing.T) {
	state := State{StageID: strPtr("2"), Status: domain.CandidateStatusRejected}
	for _, target := range []domain.CandidateStatus{
		domain.CandidateStatusInProgress,
		domain.CandidateStatusScheduled,
		domain.CandidateStatusValidated,
	} {
		tr, err := Reopen(state, target)
		if err != nil {
			t.Fatalf("reopen %s: %v", target, err)
		}
		if tr.To.Status != target || *tr.To.StageID != "2" {
			t.Fatalf("reopen %s: got (%s,%s)", target, *tr.To.StageID, tr.To.Status)
		}
	}

	if _, err := Reopen(state, "hired"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestSetStageNonLinear(t *testing.T) {
	catalog := scenarioCatalog()
	for _, from := range []string{"1", "2", "3"} {
		for _, to := range []string{"1", "2", "3"} {
			state := State{StageID: strPtr(from), Status: domain.CandidateStatusValidated}
			tr, err := SetStage(state, to, catalog)
			if err != nil {
				t.Fatalf("%s -> %s: %v", from, to, err)
			}
			if *tr.To.StageID != to {
				t.Fatalf("%s -> %s: landed on %s", from, to, *tr.To.StageID)
			}
			if tr.To.Status != domain.CandidateStatusValidated {
				t.Fatalf("%s -> %s: status changed to %s", from, to, tr.To.Status)
			}
		}
	}
}

func TestSetStageRejectsInactive(t *testing.T) {
	catalog := scenarioCatalog()
	catalog[2].Active = false
	if _, err := SetStage(State{StageID: strPtr("1")}, "3", catalog); !errors.Is(err, ErrStageNotFound) {
		t.Fatalf("expected ErrStageNotFound, got %v", err)
	}
}

func TestInitialStage(t *testing.T) {
	catalog := []domain.Stage{
		{ID: "x", Order: 4, Active: true},
		{ID: "y", Order: 2, Active: false},
		{ID: "z", Order: 3, Active: true},
	}
	stage, err := InitialStage(catalog)
	if err != nil {
		t.Fatalf("initial stage: %v", err)
	}
	if stage.ID != "z" {
		t.Fatalf("expected z, got %s", stage.ID)
	}
	if _, err := InitialStage(nil); !errors.Is(err, ErrStageNotFound) {
		t.Fatalf("expected ErrStageNotFound, got %v", err)
	}
}

func TestTransitionApply(t *testing.T) {
	candidate := &domain.Candidate{StageID: strPtr("1"), Status: domain.CandidateStatusScheduled}
	tr, err := Advance(StateOf(candidate), scenarioCatalog())
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	tr.Apply(candidate)
	if *candidate.StageID != "2" || candidate.Status != domain.CandidateStatusInProgress {
		t.Fatalf("apply wrote (%s,%s)", *candidate.StageID, candidate.Status)
	}
	if !tr.Changed() {
		t.Fatal("expected transition to report a change")
	}
}
