package shared

// Background task types
const (
	TypeGenerateReport = "report:generate"
)

// Queue names
const (
	QueueReports = "reports"
)

// GenerateReportPayload is the body of a report:generate task
type GenerateReportPayload struct {
	UserID int64 `json:"user_id"`
}
