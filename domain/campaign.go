package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Campaign segments as predicted by the offline model.
const (
	SegmentEngaged         = 0
	SegmentFrequentVisitor = 1
	SegmentLoyal           = 2
	SegmentNew             = 3
)

// SegmentNames maps model output to display labels.
var SegmentNames = map[int]string{
	SegmentEngaged:         "Engaged",
	SegmentFrequentVisitor: "Frequent Visitor",
	SegmentLoyal:           "Loyal",
	SegmentNew:             "New",
}

// FormSegments maps the launch-form tokens to model segments. The engine
// only ever sees the integer form.
var FormSegments = map[string]int{
	"engaged":          SegmentEngaged,
	"frequent_visitor": SegmentFrequentVisitor,
	"loyal":            SegmentLoyal,
	"new_users":        SegmentNew,
}

const (
	CampaignStatusScheduled = "Scheduled"
	CampaignStatusLaunched  = "Launched"
)

type Campaign struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Type      string    `gorm:"column:type" json:"type"`
	Subject   string    `gorm:"column:subject" json:"subject"`
	Offer     string    `gorm:"column:offer" json:"offer"`
	Segment   int       `gorm:"column:segment;not null" json:"segment"`
	StartTime string    `gorm:"column:start_time" json:"start_time"`
	EndTime   string    `gorm:"column:end_time" json:"end_time"`
	Status    string    `gorm:"column:status;default:Scheduled" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignAssignment records that the targeting engine selected a campaign
// for delivery to a user. Append-only; launch order is insertion order.
type CampaignAssignment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	CampaignID string    `gorm:"column:campaign_id;not null" json:"campaign_id"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CampaignAssignment) TableName() string {
	return "campaign_assignments"
}

// TargetingEvent is the audit row written per launch, carrying the scan
// outcome and the classifier context for later analysis.
type TargetingEvent struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	CampaignID string            `gorm:"column:campaign_id;not null" json:"campaign_id"`
	Evaluated  int               `gorm:"column:evaluated;not null" json:"evaluated"`
	Assigned   int               `gorm:"column:assigned;not null" json:"assigned"`
	Skipped    int               `gorm:"column:skipped;not null" json:"skipped"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Context    datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
}

func (TargetingEvent) TableName() string {
	return "targeting_events"
}
