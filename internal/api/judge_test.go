package api

import "testing"

func TestParseJudgment(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantVerdict  string
		wantEvidence string
	}{
		{
			name:         "pass with evidence",
			text:         "PASS: score panel reads 30",
			wantVerdict:  "PASS",
			wantEvidence: "score panel reads 30",
		},
		{
			name:         "issues with evidence",
			text:         "ISSUES: score panel reads 20",
			wantVerdict:  "ISSUES",
			wantEvidence: "score panel reads 20",
		},
		{
			name:        "bare pass",
			text:        "PASS",
			wantVerdict: "PASS",
		},
		{
			name:         "unparseable",
			text:         "The screenshot looks fine to me.",
			wantVerdict:  "",
			wantEvidence: "The screenshot looks fine to me.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, evidence := parseJudgment(tt.text)
			if verdict != tt.wantVerdict {
				t.Errorf("verdict = %q, want %q", verdict, tt.wantVerdict)
			}
			if evidence != tt.wantEvidence {
				t.Errorf("evidence = %q, want %q", evidence, tt.wantEvidence)
			}
		})
	}
}

func TestImageMediaType(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"shot.png", "image/png", false},
		{"shot.PNG", "image/png", false},
		{"shot.jpg", "image/jpeg", false},
		{"shot.jpeg", "image/jpeg", false},
		{"shot.webp", "image/webp", false},
		{"shot.bmp", "", true},
		{"shot", "", true},
	}

	for _, tt := range tests {
		got, err := imageMediaType(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.path)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestTokenTracker(t *testing.T) {
	tracker := NewTokenTracker()
	tracker.Add(100, 50)
	tracker.Add(200, 25)

	input, output := tracker.Total()
	if input != 300 || output != 75 {
		t.Errorf("expected totals 300/75, got %d/%d", input, output)
	}
	if tracker.Calls() != 2 {
		t.Errorf("expected 2 calls, got %d", tracker.Calls())
	}
}
