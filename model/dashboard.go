package model

// Metric status values
const (
	MetricGood     = "good"
	MetricWarning  = "warning"
	MetricCritical = "critical"
)

// DashboardStats mirrors the /Dashboard/user and /Dashboard/admin payloads.
// The PascalCase fields are emitted by the backend as-is.
type DashboardStats struct {
	TotalUsers        int             `json:"totalUsers"`
	TotalFaculties    int             `json:"totalFaculties"`
	TotalUniversities int             `json:"totalUniversities"`
	TotalPrograms     int             `json:"totalPrograms"`
	RecentActivities  []Activity      `json:"recentActivities"`
	QualityMetrics    []QualityMetric `json:"qualityMetrics"`

	RecentNotifications []Notification `json:"RecentNotifications"`
	CompletedTasks      int            `json:"CompletedTasks"`
	MyTasks             int            `json:"MyTasks"`
	UnreadNotifications int            `json:"UnreadNotifications"`
	PendingTasks        int            `json:"PendingTasks"`
}

// CompletedPercentage is CompletedTasks/MyTasks as a percentage, 0 when either is zero
func (s DashboardStats) CompletedPercentage() float64 {
	if s.CompletedTasks == 0 || s.MyTasks == 0 {
		return 0
	}
	return float64(s.CompletedTasks) / float64(s.MyTasks) * 100
}

type Notification struct {
	ID             int               `json:"id"`
	NotificationID int               `json:"notification_id"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	Type           string            `json:"type"`
	Date           string            `json:"date"`
	Read           bool              `json:"read"`
	User           *NotificationUser `json:"User,omitempty"`
}

type NotificationUser struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type Activity struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
	User        string `json:"user"`
}

type QualityMetric struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
	Status string  `json:"status"`
}
