package services

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/kkurosawa/ssbj-readiness-backend/internal/pkg/errors"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

func completedAssessment(t *testing.T, f *serviceFixture) *types.Assessment {
	t.Helper()
	a := f.createAssessment(t)
	f.scoreEverything(t, a.ID, 3)
	completed, err := f.assessments.Complete(context.Background(), f.userID, a.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	return completed
}

func TestStartRequiresCompletedAssessment(t *testing.T) {
	f := newServiceFixture(t)
	a := f.createAssessment(t)

	if _, err := f.reviews.Start(context.Background(), f.userID, a.ID); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestStartCreatesItemPerControl(t *testing.T) {
	f := newServiceFixture(t)
	a := completedAssessment(t, f)

	review, err := f.reviews.Start(context.Background(), f.userID, a.ID)
	if err != nil {
		t.Fatalf("start review: %v", err)
	}
	controls := f.cat.Controls()
	if len(review.Items) != len(controls) {
		t.Fatalf("items = %d, want %d", len(review.Items), len(controls))
	}
	for _, item := range review.Items {
		if item.Status != types.ReviewItemNotReviewed {
			t.Errorf("%s status = %q, want not_reviewed", item.ControlID, item.Status)
		}
		if f.cat.ControlByID(item.ControlID) == nil {
			t.Errorf("item references unknown control %q", item.ControlID)
		}
	}

	reloaded, gErr := f.assessments.Get(context.Background(), f.userID, a.ID)
	if gErr != nil {
		t.Fatalf("reload assessment: %v", gErr)
	}
	if reloaded.Status != types.AssessmentStatusUnderReview {
		t.Errorf("assessment status = %q, want under_review", reloaded.Status)
	}

	// A second open review on the same assessment is rejected.
	if _, err := f.reviews.Start(context.Background(), f.userID, a.ID); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("second start: %v, want ErrInvalidArgument", err)
	}
}

func TestFinishRequiresEveryItemReviewed(t *testing.T) {
	f := newServiceFixture(t)
	a := completedAssessment(t, f)
	review, err := f.reviews.Start(context.Background(), f.userID, a.ID)
	if err != nil {
		t.Fatalf("start review: %v", err)
	}

	_, err = f.reviews.Finish(context.Background(), f.userID, review.ID, FinishReviewInput{Opinion: types.OpinionUnqualified})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("finish with pending items: %v, want ErrInvalidArgument", err)
	}

	for _, ctrl := range f.cat.Controls() {
		if _, err := f.reviews.RecordItem(context.Background(), f.userID, review.ID, RecordItemInput{
			ControlID: ctrl.ID,
			Status:    types.ReviewItemSatisfactory,
			Comment:   "walkthrough complete",
		}); err != nil {
			t.Fatalf("record %s: %v", ctrl.ID, err)
		}
	}

	finished, err := f.reviews.Finish(context.Background(), f.userID, review.ID, FinishReviewInput{
		Opinion: types.OpinionUnqualified,
		Summary: "Controls operating as described.",
	})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if finished.Status != types.ReviewStatusSubmitted {
		t.Errorf("status = %q, want submitted", finished.Status)
	}
	if finished.Opinion != types.OpinionUnqualified {
		t.Errorf("opinion = %q", finished.Opinion)
	}
	if finished.SubmittedAt == nil {
		t.Error("submitted_at not set")
	}

	reloaded, gErr := f.assessments.Get(context.Background(), f.userID, a.ID)
	if gErr != nil {
		t.Fatalf("reload assessment: %v", gErr)
	}
	if reloaded.Status != types.AssessmentStatusReviewed {
		t.Errorf("assessment status = %q, want reviewed", reloaded.Status)
	}
}

func TestRecordItemValidatesStatus(t *testing.T) {
	f := newServiceFixture(t)
	a := completedAssessment(t, f)
	review, err := f.reviews.Start(context.Background(), f.userID, a.ID)
	if err != nil {
		t.Fatalf("start review: %v", err)
	}

	_, err = f.reviews.RecordItem(context.Background(), f.userID, review.ID, RecordItemInput{
		ControlID: "LA-01",
		Status:    "looks_fine",
	})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}

	_, err = f.reviews.RecordItem(context.Background(), f.userID, review.ID, RecordItemInput{
		ControlID: "LA-99",
		Status:    types.ReviewItemSatisfactory,
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown control: %v, want ErrNotFound", err)
	}
}

func TestFinishValidatesOpinion(t *testing.T) {
	f := newServiceFixture(t)
	a := completedAssessment(t, f)
	review, err := f.reviews.Start(context.Background(), f.userID, a.ID)
	if err != nil {
		t.Fatalf("start review: %v", err)
	}
	_, err = f.reviews.Finish(context.Background(), f.userID, review.ID, FinishReviewInput{Opinion: "perfect"})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
