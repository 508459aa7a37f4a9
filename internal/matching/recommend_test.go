package matching

import (
	"testing"
)

func TestRecommendBridgeFromPartialProficiency(t *testing.T) {
	snap := testSnapshot(t)
	gaps := []Gap{{SkillID: "python", Required: LevelAdvanced, Held: LevelNovice, Weight: 1, Severity: 2}}
	profile := Profile{"python": LevelNovice}

	steps := Recommend(gaps, profile, snap)
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}

	step := steps[0]
	if step.Rationale != RationaleBridge || step.BridgeFrom != "python" {
		t.Fatalf("expected a bridge from existing proficiency, got %+v", step)
	}
	if step.EstimatedWeeks != 4 {
		t.Fatalf("two missing levels at the bridge rate is 4 weeks, got %d", step.EstimatedWeeks)
	}
	if step.Priority != 1 {
		t.Fatalf("unexpected priority: %d", step.Priority)
	}
}

func TestRecommendBridgeFromAncestor(t *testing.T) {
	snap := testSnapshot(t)
	gaps := []Gap{{SkillID: "go", Required: LevelIntermediate, Held: LevelNone, Weight: 1, Severity: 2}}
	profile := Profile{"backend": LevelIntermediate}

	steps := Recommend(gaps, profile, snap)
	if steps[0].Rationale != RationaleBridge || steps[0].BridgeFrom != "backend" {
		t.Fatalf("expected a bridge from the held ancestor, got %+v", steps[0])
	}
	if steps[0].EstimatedWeeks != 4 {
		t.Fatalf("unexpected estimate: %d", steps[0].EstimatedWeeks)
	}
}

func TestRecommendBridgeFromSibling(t *testing.T) {
	snap := testSnapshot(t)
	gaps := []Gap{{SkillID: "python", Required: LevelIntermediate, Held: LevelNone, Weight: 1, Severity: 2}}
	profile := Profile{"go": LevelAdvanced}

	steps := Recommend(gaps, profile, snap)
	if steps[0].Rationale != RationaleBridge || steps[0].BridgeFrom != "go" {
		t.Fatalf("expected a bridge from the sibling, got %+v", steps[0])
	}
}

func TestRecommendScratchWhenUnrelated(t *testing.T) {
	snap := testSnapshot(t)
	gaps := []Gap{{SkillID: "react", Required: LevelIntermediate, Held: LevelNone, Weight: 1, Severity: 2}}
	profile := Profile{"go": LevelExpert}

	steps := Recommend(gaps, profile, snap)
	if steps[0].Rationale != RationaleScratch || steps[0].BridgeFrom != "" {
		t.Fatalf("expected acquisition from scratch, got %+v", steps[0])
	}
	if steps[0].EstimatedWeeks != 6 {
		t.Fatalf("two levels at the scratch rate is 6 weeks, got %d", steps[0].EstimatedWeeks)
	}
}

func TestRecommendPreservesGapOrder(t *testing.T) {
	snap := testSnapshot(t)
	gaps := []Gap{
		{SkillID: "python", Required: LevelIntermediate, Held: LevelNone},
		{SkillID: "react", Required: LevelIntermediate, Held: LevelNone},
	}

	steps := Recommend(gaps, Profile{}, snap)
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].SkillID != "python" || steps[0].Priority != 1 {
		t.Fatalf("unexpected first step: %+v", steps[0])
	}
	if steps[1].SkillID != "react" || steps[1].Priority != 2 {
		t.Fatalf("unexpected second step: %+v", steps[1])
	}
}
