package domain_test

import (
	"testing"
	"time"

	"engagemon/internal/modules/sensing/domain"
)

func TestKindValidate(t *testing.T) {
	t.Parallel()
	for _, k := range domain.Kinds {
		if err := k.Validate(); err != nil {
			t.Fatalf("%s should be valid: %v", k, err)
		}
	}
	if err := domain.Kind("camera").Validate(); err == nil {
		t.Fatalf("unknown kind should fail")
	}
}

func TestSampleValidate(t *testing.T) {
	t.Parallel()
	base := domain.Sample{Timestamp: time.Now().UTC(), Source: domain.KindAudio, Label: "happy", Confidence: 0.8}
	if err := base.Validate(); err != nil {
		t.Fatalf("sample should be valid: %v", err)
	}
	noLabel := base
	noLabel.Label = ""
	if err := noLabel.Validate(); err == nil {
		t.Fatalf("missing label should fail")
	}
	tooConfident := base
	tooConfident.Confidence = 1.2
	if err := tooConfident.Validate(); err == nil {
		t.Fatalf("confidence above 1 should fail")
	}
	noTime := base
	noTime.Timestamp = time.Time{}
	if err := noTime.Validate(); err == nil {
		t.Fatalf("zero timestamp should fail")
	}
}

func TestVocabulary(t *testing.T) {
	t.Parallel()
	if len(domain.Vocabulary(domain.KindAudio)) != 8 || len(domain.Vocabulary(domain.KindScreen)) != 8 {
		t.Fatalf("unexpected vocabulary sizes")
	}
	if domain.Vocabulary("camera") != nil {
		t.Fatalf("unknown kind has no vocabulary")
	}
}
