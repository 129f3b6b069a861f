package sendscreeningnotification

type Input struct {
	RecipientID      string                 `json:"recipientId"`
	RecipientType    string                 `json:"recipientType"` // "recruiter" or "candidate"
	NotificationType string                 `json:"notificationType"`
	ScreeningID      string                 `json:"screeningId,omitempty"`
	Priority         string                 `json:"priority,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeScreeningCompleted = "screening_completed"
	TypeHighMatchAlert     = "high_match_alert"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Recipient types
const (
	RecipientTypeRecruiter = "recruiter"
	RecipientTypeCandidate = "candidate"
)
