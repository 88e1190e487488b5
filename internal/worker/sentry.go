package worker

import (
	"context"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

// SentryMiddleware reports a failed draft task once, on the attempt after
// which asynq gives up. Earlier failures only leave a breadcrumb.
func SentryMiddleware(h asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		meta := readTaskMeta(ctx, t)

		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("task_type", t.Type())
			scope.SetTag("queue", meta.Queue)
			scope.SetTag("draft_id", meta.DraftID)
			scope.SetContext("task", sentry.Context{
				"id":        meta.ID,
				"retried":   meta.Retried,
				"max_retry": meta.MaxRetry,
			})
		})
		ctx = sentry.SetHubOnContext(ctx, hub)

		err := h.ProcessTask(ctx, t)
		if err == nil {
			return nil
		}
		if meta.lastAttempt(err) {
			hub.CaptureException(err)
		} else {
			hub.AddBreadcrumb(&sentry.Breadcrumb{
				Category: "task",
				Message:  "attempt " + strconv.Itoa(meta.Retried+1) + " failed: " + err.Error(),
				Level:    sentry.LevelWarning,
			}, nil)
		}
		return err
	})
}
