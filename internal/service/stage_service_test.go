package service

import (
	"context"
	"testing"

	"github.com/spec-kit/recruitment-service/internal/config"
	"github.com/spec-kit/recruitment-service/internal/domain"
	apperrors "github.com/spec-kit/recruitment-service/pkg/util/errorutil"
)

func newStageFixture() (*memDB, *StageService) {
	db := newMemDB()
	seedStage(db, "s1", "Soft Skills", 1, true)
	seedStage(db, "s2", "Technical Interview", 2, true)
	seedStage(db, "s3", "Client Meeting", 3, true)
	return db, NewStageService(fakeStages{db}, nil)
}

var stageAdmin = &domain.User{ID: "admin-1", Role: domain.RoleAdmin}

func TestStageCreateValidation(t *testing.T) {
	_, svc := newStageFixture()
	ctx := context.Background()

	if _, err := svc.Create(ctx, StageCreateInput{Name: " ", Order: 4}); !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_FAILED for blank name, got %v", err)
	}
	if _, err := svc.Create(ctx, StageCreateInput{Name: "Offer", Order: 0}); !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_FAILED for order 0, got %v", err)
	}
	if _, err := svc.Create(ctx, StageCreateInput{Name: "Offer", Order: 2}); !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT for duplicate order, got %v", err)
	}

	inactive := false
	if _, err := svc.Create(ctx, StageCreateInput{Name: "Archive", Order: 2, Active: &inactive}); err != nil {
		t.Fatalf("inactive stages may share an order: %v", err)
	}
	stage, err := svc.Create(ctx, StageCreateInput{Name: " Offer ", Order: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if stage.Name != "Offer" || !stage.Active {
		t.Fatalf("unexpected stage %+v", stage)
	}
}

func TestStageListSortedAndFiltered(t *testing.T) {
	db, svc := newStageFixture()
	seedStage(db, "s0", "Screening", 9, false)
	ctx := context.Background()

	active, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 3 || active[0].ID != "s1" || active[2].ID != "s3" {
		t.Fatalf("unexpected active catalog %+v", active)
	}
	all, _ := svc.List(ctx, false)
	if len(all) != 4 {
		t.Fatalf("expected inactive stage in full list, got %d", len(all))
	}
}

func TestStageDeleteBlockedByCandidates(t *testing.T) {
	db, svc := newStageFixture()
	ctx := context.Background()
	seedCandidate(db, "c1", strPtr("s2"), domain.CandidateStatusInProgress)
	seedCandidate(db, "c2", strPtr("s2"), domain.CandidateStatusScheduled)

	_, err := svc.Delete(ctx, stageAdmin, "s2", nil)
	if !apperrors.IsCode(err, apperrors.CodeDanglingStageReference) {
		t.Fatalf("expected DANGLING_STAGE_REFERENCE, got %v", err)
	}
	if got := apperrors.ToDomainError(err).Details["affected_candidates"]; got != int64(2) {
		t.Fatalf("expected 2 affected candidates, got %v", got)
	}
	if _, ok := db.stages["s2"]; !ok {
		t.Fatal("stage must survive a refused delete")
	}
}

func TestStageDeleteWithReassignment(t *testing.T) {
	db, svc := newStageFixture()
	ctx := context.Background()
	seedCandidate(db, "c1", strPtr("s2"), domain.CandidateStatusInProgress)

	if _, err := svc.Delete(ctx, stageAdmin, "s2", strPtr("s2")); !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_FAILED for self reassignment, got %v", err)
	}
	if _, err := svc.Delete(ctx, stageAdmin, "s2", strPtr("nope")); !apperrors.IsCode(err, apperrors.CodeStageNotFound) {
		t.Fatalf("expected STAGE_NOT_FOUND for unknown target, got %v", err)
	}

	moved, err := svc.Delete(ctx, stageAdmin, "s2", strPtr("s1"))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if moved != 1 {
		t.Fatalf("expected one moved candidate, got %d", moved)
	}
	if _, ok := db.stages["s2"]; ok {
		t.Fatal("stage should be gone")
	}
	c := db.candidates["c1"]
	if *c.StageID != "s1" || c.Status != domain.CandidateStatusInProgress || c.Version != 2 {
		t.Fatalf("unexpected candidate after reassignment %+v", c)
	}
	if len(db.history) != 1 || db.history[0].Action != domain.ActionSetStage || *db.history[0].ActorID != "admin-1" {
		t.Fatalf("expected a set_stage history row, got %+v", db.history)
	}
}

func TestStageDeleteUnreferenced(t *testing.T) {
	db, svc := newStageFixture()
	moved, err := svc.Delete(context.Background(), stageAdmin, "s3", nil)
	if err != nil || moved != 0 {
		t.Fatalf("delete: moved=%d err=%v", moved, err)
	}
	if _, ok := db.stages["s3"]; ok {
		t.Fatal("stage should be gone")
	}
	if _, err := svc.Delete(context.Background(), stageAdmin, "s3", nil); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND on second delete, got %v", err)
	}
}

func TestStageDeactivateRequiresReassignment(t *testing.T) {
	db, svc := newStageFixture()
	ctx := context.Background()
	seedCandidate(db, "c1", strPtr("s1"), domain.CandidateStatusScheduled)
	off := false

	_, err := svc.Update(ctx, stageAdmin, "s1", StageUpdateInput{Active: &off})
	if !apperrors.IsCode(err, apperrors.CodeDanglingStageReference) {
		t.Fatalf("expected DANGLING_STAGE_REFERENCE, got %v", err)
	}
	if !db.stages["s1"].Active {
		t.Fatal("stage must stay active")
	}

	stage, err := svc.Update(ctx, stageAdmin, "s1", StageUpdateInput{Active: &off, ReassignTo: strPtr("s2")})
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if stage.Active || db.stages["s1"].Active {
		t.Fatal("stage should be inactive")
	}
	if *db.candidates["c1"].StageID != "s2" {
		t.Fatalf("candidate should have moved to s2, got %s", *db.candidates["c1"].StageID)
	}
}

func TestStageUpdateRenameAndReorder(t *testing.T) {
	db, svc := newStageFixture()
	ctx := context.Background()

	if _, err := svc.Update(ctx, stageAdmin, "s3", StageUpdateInput{Order: intPtr(1)}); !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	stage, err := svc.Update(ctx, stageAdmin, "s3", StageUpdateInput{Name: strPtr("Client Call"), Order: intPtr(10)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if stage.Name != "Client Call" || db.stages["s3"].Order != 10 {
		t.Fatalf("unexpected stage %+v", db.stages["s3"])
	}
	if _, err := svc.Update(ctx, stageAdmin, "missing", StageUpdateInput{}); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestStageSeedSkipsExisting(t *testing.T) {
	db := newMemDB()
	seedStage(db, "s1", "soft skills", 1, true)
	svc := NewStageService(fakeStages{db}, nil)

	created, err := svc.Seed(context.Background(), config.DefaultStageSeeds())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if created != 2 || len(db.stages) != 3 {
		t.Fatalf("expected two new stages, got created=%d total=%d", created, len(db.stages))
	}

	again, err := svc.Seed(context.Background(), config.DefaultStageSeeds())
	if err != nil || again != 0 {
		t.Fatalf("second seed should be a no-op: created=%d err=%v", again, err)
	}

	if _, err := svc.Seed(context.Background(), nil); !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_FAILED for empty seed set, got %v", err)
	}
}
