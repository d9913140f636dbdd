package types

import "testing"

func TestParseNodeKind(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  NodeKind
		ok    bool
	}{
		{name: "project page", input: "project_page", want: NodeProjectPage, ok: true},
		{name: "goal page", input: "goal_page", want: NodeGoalPage, ok: true},
		{name: "lab page", input: "lab_page", want: NodeLabPage, ok: true},
		{name: "goal bucket", input: "goal_bucket", want: NodeGoalBucket, ok: true},
		{name: "lab bucket", input: "lab_bucket", want: NodeLabBucket, ok: true},
		{name: "deliverable", input: "deliverable", want: NodeDeliverable, ok: true},
		{name: "unknown kind rejected", input: "bogus", ok: false},
		{name: "empty rejected", input: "", ok: false},
		{name: "case sensitive", input: "Project_Page", ok: false},
		{name: "whitespace rejected", input: " goal_page", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseNodeKind(tc.input)
			if ok != tc.ok {
				t.Fatalf("ParseNodeKind(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("ParseNodeKind(%q) = %q, want %q", tc.input, got, tc.want)
			}
			if !ok && got != "" {
				t.Fatalf("ParseNodeKind(%q) returned %q on failure, want empty", tc.input, got)
			}
		})
	}
}

func TestNodeKindIsPage(t *testing.T) {
	pages := map[NodeKind]bool{
		NodeProjectPage: true,
		NodeGoalPage:    true,
		NodeLabPage:     true,
		NodeGoalBucket:  false,
		NodeLabBucket:   false,
		NodeDeliverable: false,
	}
	for _, kind := range AllNodeKinds() {
		want, listed := pages[kind]
		if !listed {
			t.Fatalf("kind %q missing from expectations", kind)
		}
		if got := kind.IsPage(); got != want {
			t.Fatalf("%q.IsPage() = %v, want %v", kind, got, want)
		}
	}
}

func TestAllNodeKindsRoundTrip(t *testing.T) {
	for _, kind := range AllNodeKinds() {
		parsed, ok := ParseNodeKind(kind.String())
		if !ok || parsed != kind {
			t.Fatalf("kind %q did not round-trip through ParseNodeKind", kind)
		}
	}
}
