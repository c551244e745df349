package rabbitmq

// Exchange — exchange для писем с одноразовыми кодами.
const Exchange = "notifications"

// Routing keys по назначению кода.
const (
	RoutingKeyVerification = "verification"
	RoutingKeyReset        = "reset"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetCodeQueues возвращает очереди писем с кодами подтверждения и сброса.
func GetCodeQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.verification", RoutingKey: RoutingKeyVerification},
		{QueueName: "notifications.reset", RoutingKey: RoutingKeyReset},
	}
}
