package models

import "time"

// Enrollment — запись студента на урок (сводная таблица многие-ко-многим).
// Пара (UserID, LessonID) уникальна: студент может держать не более одной
// активной записи на урок.
type Enrollment struct {
	UserID     string
	LessonID   string
	AssignedAt time.Time
}

// RosterItem — строка списка состава урока для административного просмотра.
type RosterItem struct {
	AssignedAt time.Time   `json:"assignedAt"`
	User       UserSummary `json:"user"`
}

// Действия с записью на урок, публикуемые в очередь уведомлений.
const (
	EnrollmentActionRegistered   = "registered"
	EnrollmentActionUnregistered = "unregistered"
)

// EnrollmentEvent — сообщение о записи либо отписке от урока,
// публикуемое после успешной записи в хранилище. Email может быть пустым,
// в этом случае отправитель письма пропускает сообщение.
type EnrollmentEvent struct {
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	LessonName string    `json:"lesson_name"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}
