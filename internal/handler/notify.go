package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/domain"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/service"
)

type Publisher interface {
	Publish(ctx context.Context, msg domain.MailMessage) error
}

// AMQPPublisher 把邮件消息投递到 rabbitmq 队列，由 cmd/mail 消费
type AMQPPublisher struct {
	ch    *amqp.Channel
	queue string
}

func NewAMQPPublisher(ch *amqp.Channel, queue string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, queue: queue}
}

func (p *AMQPPublisher) Publish(ctx context.Context, msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// notify 在医生有邮箱时发送排班通知。
// 分配已经生效，通知失败只记录日志，不影响响应。
func (h *Handler) notify(r *http.Request, a service.Assignment) {
	if h.publisher == nil || a.Doctor.Email == "" {
		return
	}

	mailType := domain.MailTypeAssignment
	if a.Action == service.ActionUnassign {
		mailType = domain.MailTypeUnassignment
	}

	msg := domain.MailMessage{
		Type: mailType,
		To:   a.Doctor.Email,
		Data: domain.AssignmentMailData{
			DoctorName: a.Doctor.Name,
			Day:        a.Key.Day,
			Date:       a.Date,
			ShiftName:  a.Shift,
			RoomName:   a.Cell.RoomName,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.publisher.Publish(ctx, msg); err != nil {
		slog.Error("无法发送排班通知", "to", msg.To, "type", msg.Type, "requestId", requestIDFrom(r), "error", err)
		h.metrics.notifyFailures.Inc()
		return
	}
	h.metrics.notifications.WithLabelValues(mailType).Inc()
}
