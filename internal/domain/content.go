package domain

import "time"

// ContentType classifies a catalog item by medium.
type ContentType string

const (
	ContentTypeVideo    ContentType = "video"
	ContentTypeDocument ContentType = "document"
	ContentTypeImage    ContentType = "image"
	ContentTypeQuiz     ContentType = "quiz"
)

// ContentStatusPublished is the only status the curator reads.
const ContentStatusPublished = "published"

// ContentItem is a catalog entry owned by the content-authoring subsystem.
// Read-only to the engine.
type ContentItem struct {
	ID          string
	Title       string
	PathType    LearnerType
	Difficulty  DifficultyBand
	ContentType ContentType
	Topic       string
	CourseID    string
	Status      string
}

// CurriculumPath is the admin-authored tree a content item belongs to,
// distinct from StudentPath which is the per-student assignment over it.
type CurriculumPath struct {
	ID       string
	Title    string
	PathType LearnerType
	Status   string
}

// EntryStatus tracks a student's progress on one assigned item.
type EntryStatus string

const (
	EntryStatusPending    EntryStatus = "pending"
	EntryStatusInProgress EntryStatus = "in_progress"
	EntryStatusCompleted  EntryStatus = "completed"
)

// EntryPriority orders entries within a path. AI-recommended entries are
// high priority and sort first.
type EntryPriority string

const (
	PriorityNormal EntryPriority = "normal"
	PriorityHigh   EntryPriority = "high"
)

// AssignedContentEntry is one item of a student's individualized path.
type AssignedContentEntry struct {
	ContentID     string        `json:"content_id"`
	Status        EntryStatus   `json:"status"`
	Priority      EntryPriority `json:"priority"`
	AIRecommended bool          `json:"ai_recommended"`
	AddedDate     time.Time     `json:"added_date"`
}

// PathStatus is the overall state of a student's path.
type PathStatus string

const (
	PathStatusInProgress PathStatus = "in_progress"
	PathStatusCompleted  PathStatus = "completed"
)

// StudentPath is the persisted per-student assignment. One per student;
// regeneration replaces AssignedContent wholesale.
type StudentPath struct {
	ID               string
	StudentID        string
	CurriculumPathID string
	AssignedContent  []AssignedContentEntry
	Status           PathStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ContentIDs returns the ordered content ids of the assigned entries.
func (p *StudentPath) ContentIDs() []string {
	ids := make([]string, 0, len(p.AssignedContent))
	for _, e := range p.AssignedContent {
		ids = append(ids, e.ContentID)
	}
	return ids
}
