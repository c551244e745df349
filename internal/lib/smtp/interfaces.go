// Package smtp содержит транспорт доставки писем с кодами подтверждения почты
// и сброса пароля. Транспорт и клиент вынесены в интерфейсы, чтобы сервис
// отправки тестировался без живого SMTP-сервера.
package smtp

import "io"

// Client — один SMTP-сеанс: конверт (Mail/Rcpt), тело письма (Data)
// и завершение сеанса.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает SMTP-сеансы и сообщает адрес отправителя
// для заголовка From.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
