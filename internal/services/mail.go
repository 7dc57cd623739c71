package services

import (
	"context"
	"errors"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/notify"
	"shopfront/internal/repos"
)

type TemplateLookup interface {
	ByKey(storeID, key string) (domain.NotificationTemplate, error)
}

// mailTemplate sends the store's template key to one recipient. Mail is
// best effort: a missing or inactive template is skipped, other failures
// are logged and never reach the caller.
func mailTemplate(ctx context.Context, tpls TemplateLookup, mailer notify.Mailer, storeID, key, to string, data any) {
	if tpls == nil || mailer == nil {
		return
	}
	t, err := tpls.ByKey(storeID, key)
	if errors.Is(err, repos.ErrNotFound) {
		return
	}
	if err != nil {
		applog.Error(nil, "mail.template", err, map[string]any{"store_id": storeID, "key": key})
		return
	}
	msg, err := notify.Compose(t, to, data)
	if errors.Is(err, notify.ErrInactive) {
		return
	}
	if err == nil {
		err = mailer.Send(ctx, msg)
	}
	if err != nil {
		applog.Error(nil, "mail.send", err, map[string]any{"store_id": storeID, "key": key})
	}
}
