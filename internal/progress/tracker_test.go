package progress

import "testing"

func TestTrackerStageAdvance(t *testing.T) {
	var updates []Update
	tr := NewTracker("run-1", PublisherFunc(func(u Update) {
		updates = append(updates, u)
	}))

	tr.SetStage("keyword_expansion")
	tr.SetSub(0.5, "45/90 키워드")

	if len(updates) != 2 {
		t.Fatalf("published %d updates, want 2", len(updates))
	}
	last := updates[1]
	if last.Stage != "keyword_expansion" {
		t.Errorf("Stage = %q, want keyword_expansion", last.Stage)
	}
	if last.Emoji != "🤖" || last.Description != "AI 키워드 확장" {
		t.Errorf("stage metadata = %q %q, want the expansion stage", last.Emoji, last.Description)
	}
	if last.SubProgress != 0.5 || last.Detail != "45/90 키워드" {
		t.Errorf("sub progress = %v %q", last.SubProgress, last.Detail)
	}
}

func TestTrackerOverallIsWeighted(t *testing.T) {
	tr := NewTracker("run-1")

	if got := tr.Overall(); got != 0 {
		t.Errorf("Overall before any stage = %v, want 0", got)
	}

	// First stage, halfway: 2 seconds of 33 total, half done.
	tr.SetStage("category_analysis")
	tr.SetSub(0.5, "")
	want := 1.0 / 33.0
	if got := tr.Overall(); got != want {
		t.Errorf("Overall = %v, want %v", got, want)
	}

	// Third stage complete plus everything before it: (2+5+8)/33.
	tr.SetStage("trends_analysis")
	tr.SetSub(1, "")
	want = 15.0 / 33.0
	if got := tr.Overall(); got != want {
		t.Errorf("Overall = %v, want %v", got, want)
	}
}

func TestTrackerSubProgressClamped(t *testing.T) {
	tr := NewTracker("run-1")
	tr.SetStage("filtering")

	tr.SetSub(-0.3, "")
	if got := tr.Overall(); got < 0 {
		t.Errorf("Overall = %v after negative sub progress", got)
	}

	tr.SetSub(7, "")
	before := tr.Overall()
	tr.SetSub(1, "")
	if tr.Overall() != before {
		t.Error("sub progress above 1 was not clamped")
	}
}

func TestTrackerComplete(t *testing.T) {
	var last Update
	tr := NewTracker("run-1", PublisherFunc(func(u Update) { last = u }))

	tr.SetStage("report_generation")
	tr.Complete()

	if tr.Overall() != 1 {
		t.Errorf("Overall = %v after Complete, want 1", tr.Overall())
	}
	if !last.Done {
		t.Error("final update not marked done")
	}
	if last.Overall != 1 {
		t.Errorf("final update Overall = %v, want 1", last.Overall)
	}
}

func TestTrackerUnknownStageKeepsPosition(t *testing.T) {
	tr := NewTracker("run-1")
	tr.SetStage("trends_analysis")
	before := tr.Overall()

	tr.SetStage("no_such_stage")
	if tr.Overall() != before {
		t.Errorf("unknown stage moved progress from %v to %v", before, tr.Overall())
	}
}
