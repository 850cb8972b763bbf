package email

// Email - одно исходящее письмо.
type Email struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет простое email сообщение
	Send(email *Email) error

	// SendWelcome отправляет приветственное письмо новому пользователю
	SendWelcome(to, fullName string) error

	// Close закрывает соединение с провайдером
	Close() error
}

// NoopProvider используется в тестах и когда SMTP не сконфигурирован.
type NoopProvider struct{}

func (NoopProvider) Send(*Email) error               { return nil }
func (NoopProvider) SendWelcome(to, name string) error { return nil }
func (NoopProvider) Close() error                    { return nil }
