// Package models содержит доменные структуры, описывающие урок,
// а также вспомогательные типы для работы с данными из внешних источников.
package models

import "time"

// Уровни сложности урока.
const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
)

// Статусы урока. Неактивный урок остаётся доступным для записи.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Lesson представляет собой основную модель урока,
// используемую в бизнес-логике и хранилище.
type Lesson struct {
	ID        string    // Уникальный идентификатор урока
	Name      string    // Название урока (уникально среди активных)
	Duration  int       // Длительность в часах
	Level     string    // Уровень сложности
	Status    string    // ACTIVE или INACTIVE
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// LessonCount хранит агрегаты урока в публичном ответе.
type LessonCount struct {
	Users int `json:"users"`
}

// LessonItem — нормализованное публичное представление урока.
// IsRegistered вычисляется относительно пользователя, выполняющего запрос.
type LessonItem struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Duration     int         `json:"duration"`
	Level        string      `json:"level"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	Count        LessonCount `json:"_count"`
	IsRegistered bool        `json:"isRegistered"`
}

// LessonAdminItem — представление урока для административных операций,
// вместо агрегатов содержит список записанных студентов.
type LessonAdminItem struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Duration  int           `json:"duration"`
	Level     string        `json:"level"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Students  []UserSummary `json:"students"`
}

// LessonSummary — краткая карточка урока внутри ответа о студенте.
type LessonSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Duration  int       `json:"duration"`
	Level     string    `json:"level"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DummyLesson используется для приёма данных из JSON-запроса создания урока.
type DummyLesson struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Duration int    `json:"duration" validate:"required,gt=0"`
	Level    string `json:"level" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Status   string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

// DummyUpdateLesson используется для частичного обновления урока.
type DummyUpdateLesson struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Duration *int    `json:"duration" validate:"omitempty,gt=0"`
	Level    *string `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Status   *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}
