package types

// NodeKind is the closed set of content nodes that can host a chat thread.
// Page kinds address a project-level view, so the node id is the project id.
// Bucket kinds address an owned record and resolve to their project through
// one foreign-key lookup.
type NodeKind string

const (
	NodeProjectPage NodeKind = "project_page"
	NodeGoalPage    NodeKind = "goal_page"
	NodeLabPage     NodeKind = "lab_page"
	NodeGoalBucket  NodeKind = "goal_bucket"
	NodeLabBucket   NodeKind = "lab_bucket"
	NodeDeliverable NodeKind = "deliverable"
)

// ParseNodeKind fails closed: anything outside the enum is invalid.
func ParseNodeKind(s string) (NodeKind, bool) {
	switch NodeKind(s) {
	case NodeProjectPage, NodeGoalPage, NodeLabPage, NodeGoalBucket, NodeLabBucket, NodeDeliverable:
		return NodeKind(s), true
	default:
		return "", false
	}
}

func (k NodeKind) IsPage() bool {
	switch k {
	case NodeProjectPage, NodeGoalPage, NodeLabPage:
		return true
	default:
		return false
	}
}

func (k NodeKind) String() string { return string(k) }

func AllNodeKinds() []NodeKind {
	return []NodeKind{
		NodeProjectPage,
		NodeGoalPage,
		NodeLabPage,
		NodeGoalBucket,
		NodeLabBucket,
		NodeDeliverable,
	}
}
