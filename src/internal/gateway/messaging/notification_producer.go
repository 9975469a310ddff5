package messaging

import (
	"wallet-service/src/internal/model"
	kafka "wallet-service/src/pkg/kafka/confluent"
	"wallet-service/src/pkg/log"
)

// NotificationProducer publishes best-effort notification events for the
// email/push pipeline. A nil kafka producer disables publishing (local
// runs); Send errors are the caller's to log, never to act on.
type NotificationProducer struct {
	SupportReceivedProducer   Producer[*model.SupportReceivedEvent]
	WithdrawalSettledProducer Producer[*model.WithdrawalSettledEvent]
}

func NewNotificationProducer(producer kafka.Producer, logger log.Log) *NotificationProducer {
	return &NotificationProducer{
		SupportReceivedProducer: Producer[*model.SupportReceivedEvent]{
			Producer: producer,
			Topic:    "wallet-support-received",
			Log:      logger,
		},
		WithdrawalSettledProducer: Producer[*model.WithdrawalSettledEvent]{
			Producer: producer,
			Topic:    "wallet-withdrawal-settled",
			Log:      logger,
		},
	}
}

func (n *NotificationProducer) SendSupportReceived(event *model.SupportReceivedEvent) error {
	if n == nil || n.SupportReceivedProducer.Producer == nil {
		return nil
	}
	return n.SupportReceivedProducer.Send(event)
}

func (n *NotificationProducer) SendWithdrawalSettled(event *model.WithdrawalSettledEvent) error {
	if n == nil || n.WithdrawalSettledProducer.Producer == nil {
		return nil
	}
	return n.WithdrawalSettledProducer.Send(event)
}
