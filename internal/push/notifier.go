package push

import (
	"errors"
	"log/slog"

	"eliteagenda/internal/model"
	"eliteagenda/internal/store"
)

// Notifier fans fired reminders out to every push subscription. Delivery is
// best-effort: failures are logged and never affect in-app notification or
// alarm behavior. It implements reminder.Notifier.
type Notifier struct {
	service *Service
	subs    *store.PushStore
	logger  *slog.Logger
}

func NewNotifier(service *Service, subs *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{service: service, subs: subs, logger: logger}
}

// Notify sends the notification to all subscriptions, dropping any that
// the push service reports as gone.
func (n *Notifier) Notify(notif model.Notification) {
	subs, err := n.subs.List()
	if err != nil {
		n.logger.Error("push notifier: list subscriptions", "error", err)
		return
	}

	payload := Payload{
		Title: notif.Title,
		Body:  notif.Message,
		URL:   "/calendar",
		Tag:   notif.ID,
	}

	for _, sub := range subs {
		if err := n.service.Send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := n.subs.DeleteByEndpoint(sub.Endpoint); err != nil {
					n.logger.Error("push notifier: drop expired subscription", "error", err)
				}
				continue
			}
			n.logger.Error("push notifier: send", "error", err)
		}
	}
}
