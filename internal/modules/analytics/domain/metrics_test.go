package domain_test

import (
	"math"
	"testing"
	"time"

	"engagemon/internal/modules/analytics/domain"
)

func obs(engaged bool, context, sentiment string, confidence float64) domain.Observation {
	return domain.Observation{
		Timestamp:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Emotion:    "Happy",
		Engaged:    engaged,
		Context:    context,
		Sentiment:  sentiment,
		Confidence: confidence,
	}
}

func TestComputeEmptySnapshotIsZero(t *testing.T) {
	t.Parallel()
	if got := domain.Compute(nil, domain.DefaultParams()); got != (domain.Summary{}) {
		t.Fatalf("expected zero summary, got %+v", got)
	}
	if got := domain.Compute([]domain.Observation{}, domain.Params{}); got != (domain.Summary{}) {
		t.Fatalf("expected zero summary with zero params, got %+v", got)
	}
}

func TestComputeRatioAfterEviction(t *testing.T) {
	t.Parallel()
	// Engaged, Distracted, Engaged, Engaged through a capacity 3 buffer.
	snapshot := []domain.Observation{
		obs(false, "Browsing", "Neutral", 0.6),
		obs(true, "Programming", "Positive", 0.8),
		obs(true, "Programming", "Positive", 0.7),
	}
	got := domain.Compute(snapshot, domain.DefaultParams())
	if math.Abs(got.EngagedRatio-2.0/3.0) > 1e-12 {
		t.Fatalf("expected ratio 2/3, got %v", got.EngagedRatio)
	}
	if math.Abs(got.AvgConfidence-0.7) > 1e-12 {
		t.Fatalf("expected avg confidence 0.7, got %v", got.AvgConfidence)
	}
	if got.Records != 3 {
		t.Fatalf("expected 3 records, got %d", got.Records)
	}
}

func TestProductivityScoreWeights(t *testing.T) {
	t.Parallel()
	params := domain.DefaultParams()
	all := []domain.Observation{obs(true, "Programming", "Positive", 0.9), obs(true, "Writing", "Positive", 0.9)}
	if got := domain.ProductivityScore(all, params); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	none := []domain.Observation{obs(false, "Social Media", "Negative", 0.9)}
	if got := domain.ProductivityScore(none, params); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	half := []domain.Observation{obs(true, "Programming", "Positive", 0.9), obs(false, "Social Media", "Negative", 0.9)}
	if got := domain.ProductivityScore(half, params); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
	neutral := []domain.Observation{obs(false, "Browsing", "Neutral", 0.9)}
	if got := domain.ProductivityScore(neutral, params); got != 10 {
		t.Fatalf("neutral sentiment alone should score 10, got %d", got)
	}
	engagementOnly := domain.Params{Weights: domain.Weights{Engagement: 1}}
	if got := domain.ProductivityScore(half, engagementOnly); got != 50 {
		t.Fatalf("engagement-only weights should equal the ratio, got %d", got)
	}
}

func TestProductivityScoreUsesTrailingWindow(t *testing.T) {
	t.Parallel()
	snapshot := []domain.Observation{
		obs(false, "Social Media", "Negative", 0.5),
		obs(false, "Social Media", "Negative", 0.5),
		obs(true, "Programming", "Positive", 0.9),
		obs(true, "Programming", "Positive", 0.9),
	}
	params := domain.DefaultParams()
	params.Window = 2
	if got := domain.ProductivityScore(snapshot, params); got != 100 {
		t.Fatalf("window of 2 should only see the productive tail, got %d", got)
	}
	params.Window = 0
	if got := domain.ProductivityScore(snapshot, params); got != 50 {
		t.Fatalf("window 0 scores the whole snapshot, got %d", got)
	}
	summary := domain.Compute(snapshot, domain.Params{Weights: params.Weights, Window: 2})
	if summary.EngagedRatio != 0.5 {
		t.Fatalf("ratio spans the whole snapshot, got %v", summary.EngagedRatio)
	}
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()
	if err := domain.DefaultParams().Weights.Validate(); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}
	if err := (domain.Weights{}).Validate(); err == nil {
		t.Fatalf("all-zero weights must fail")
	}
	if err := (domain.Weights{Engagement: -1, Context: 2}).Validate(); err == nil {
		t.Fatalf("negative weight must fail")
	}
}

func TestPositivityAndProductiveContexts(t *testing.T) {
	t.Parallel()
	if domain.Positivity("POSITIVE") != 1 || domain.Positivity("Negative") != 0 || domain.Positivity("mixed") != 0.5 {
		t.Fatalf("unexpected positivity mapping")
	}
	if !domain.IsProductive("Learning") || domain.IsProductive("Entertainment") {
		t.Fatalf("unexpected productive context mapping")
	}
}
