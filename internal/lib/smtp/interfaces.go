// Package smtp оборачивает net/smtp для отправки писем о записи на уроки.
// Интерфейсы позволяют подменять транспорт в тестах.
package smtp

import "io"

// Client — минимальный набор операций SMTP сессии,
// нужный для отправки одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface описывает подключение к SMTP серверу.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
