// Package models содержит доменные структуры онлайн-школы: пользователей,
// уроки и записи на уроки, а также вспомогательные типы для приёма данных
// из JSON-запросов и формирования ответов.
package models

import "time"

// Роли пользователей системы.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User представляет зарегистрированного пользователя системы.
// Поле DeletedAt не nil у мягко удалённых записей: идентификатор при
// удалении не меняется, уникальность username действует только среди
// активных строк.
type User struct {
	ID           string     // Уникальный идентификатор пользователя
	Name         string     // Имя
	Surname      string     // Фамилия
	Username     string     // Имя учётной записи (уникально среди активных)
	Email        *string    // Электронная почта для уведомлений, может отсутствовать
	PasswordHash string     // Хэш пароля
	BirthDate    *time.Time // Дата рождения
	Role         string     // Роль пользователя, ADMIN или USER
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// UserSummary — краткая карточка пользователя для списков состава урока.
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Username string `json:"userName"`
}

// Profile — публичное представление собственного профиля пользователя.
type Profile struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Surname   string     `json:"surname"`
	Username  string     `json:"userName"`
	BirthDate *time.Time `json:"birthDate"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// StudentItem — представление студента для административных операций,
// содержит список уроков, на которые студент записан.
type StudentItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Surname   string          `json:"surname"`
	Username  string          `json:"userName"`
	BirthDate *time.Time      `json:"birthDate"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Lessons   []LessonSummary `json:"lessons"`
}

// DummyUpdateProfile используется для приёма данных из JSON-запроса
// обновления профиля. Все поля необязательные, даты приходят строками,
// чтобы их можно было валидировать и парсить вручную.
type DummyUpdateProfile struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=50"`
	Surname   *string `json:"surname" validate:"omitempty,min=2,max=50"`
	Username  *string `json:"userName" validate:"omitempty,alphanum,min=3,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
	BirthDate *string `json:"birthDate" validate:"omitempty"` // Дата в формате 2006-01-02
	Password  *string `json:"password" validate:"omitempty,min=6"`
}
