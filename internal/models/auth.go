package models

// DummyRegister используется для приёма данных из JSON-запроса
// публичной регистрации. Дата рождения приходит строкой в формате
// 2006-01-02 и парсится вручную. Поле Role принимается для совместимости
// со старыми клиентами, но бизнес-логика его не учитывает: публичная
// регистрация всегда создаёт пользователя с ролью USER.
type DummyRegister struct {
	Name      string  `json:"name" validate:"required,min=2,max=50"`
	Surname   string  `json:"surname" validate:"required,min=2,max=50"`
	Username  string  `json:"userName" validate:"required,alphanum,min=3,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
	BirthDate string  `json:"birthDate" validate:"required"`
	Password  string  `json:"password" validate:"required,min=6"`
	Role      string  `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

// DummyStudent используется для приёма данных из JSON-запроса создания
// студента администратором. Создаваемый студент всегда получает роль USER.
type DummyStudent struct {
	Name      string  `json:"name" validate:"required,min=2,max=50"`
	Surname   string  `json:"surname" validate:"required,min=2,max=50"`
	Username  string  `json:"userName" validate:"required,alphanum,min=3,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
	BirthDate *string `json:"birthDate" validate:"omitempty"`
	Password  string  `json:"password" validate:"required,min=6"`
}
