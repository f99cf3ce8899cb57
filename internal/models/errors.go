package models

import "errors"

// Сигнальные ошибки бизнес-логики. Обработчики HTTP сопоставляют их
// со статусами ответа через errors.Is.
var (
	// ErrLessonNotFound возвращается, когда урок отсутствует или мягко удалён.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrStudentNotFound возвращается, когда студент отсутствует или мягко удалён.
	ErrStudentNotFound = errors.New("student not found")
	// ErrProfileNotFound возвращается, когда профиль пользователя отсутствует.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrAlreadyRegistered возвращается при повторной записи на тот же урок.
	ErrAlreadyRegistered = errors.New("user is already registered for this lesson")
	// ErrNotRegistered возвращается при отписке без существующей записи.
	ErrNotRegistered = errors.New("user is not registered for this lesson")
	// ErrUsernameTaken возвращается, когда username занят активным пользователем.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrLessonExists возвращается, когда название урока занято активным уроком.
	ErrLessonExists = errors.New("lesson already exists")
	// ErrWrongCredentials возвращается одинаково для неизвестного пользователя
	// и неверного пароля, чтобы не раскрывать, какая из проверок не прошла.
	ErrWrongCredentials = errors.New("wrong credentials")
	// ErrBirthDateInFuture возвращается при дате рождения в будущем.
	ErrBirthDateInFuture = errors.New("birth date cannot be in the future")
	// ErrInvalidBirthDate возвращается при дате рождения не в формате 2006-01-02.
	ErrInvalidBirthDate = errors.New("invalid birth date format")
)
