package scheduler

import (
	"context"
	"errors"

	alertdomain "github.com/smallbiznis/gareline/internal/alert/domain"
	"github.com/smallbiznis/gareline/internal/notification"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
	"go.uber.org/zap"
)

func (s *Scheduler) ReconcileRechargesJob(ctx context.Context) error {
	run := jobRunFromContext(ctx)

	result, err := s.rechargeSvc.Reconcile(ctx)
	if err != nil {
		return err
	}

	transitions := int(result.Expired + result.ExpiringSoon)
	run.AddProcessed(transitions)
	s.metrics.AddBatchProcessed(JobReconcileRecharges, "recharge", transitions)
	return nil
}

// DispatchAlertsJob sends due alerts and marks them sent. An alert whose
// notification failed stays pending for the next run. The batch stops early
// when no channel can deliver at all.
func (s *Scheduler) DispatchAlertsJob(ctx context.Context) error {
	run := jobRunFromContext(ctx)

	alerts, err := s.alertSvc.ListDue(ctx, s.cfg.BatchSize)
	if err != nil {
		return err
	}

	var jobErr error
	for _, alert := range alerts {
		if err := ctx.Err(); err != nil {
			return errors.Join(jobErr, err)
		}

		notice := s.noticeFor(ctx, alert)
		if err := s.dispatcher.Dispatch(ctx, notice); err != nil {
			if errors.Is(err, notification.ErrNotDelivered) {
				s.logger(ctx).Warn("no notification channel delivered, alerts left pending",
					zap.Int("due", len(alerts)),
				)
				return errors.Join(jobErr, err)
			}
			s.logJobError(ctx, run, "alert dispatch failed", JobDispatchAlerts, err,
				zap.String("alert_id", notice.AlertID),
			)
			jobErr = errors.Join(jobErr, err)
			continue
		}
		if err := s.alertSvc.MarkSent(ctx, alert); err != nil {
			s.logJobError(ctx, run, "failed to mark alert sent", JobDispatchAlerts, err,
				zap.String("alert_id", notice.AlertID),
			)
			jobErr = errors.Join(jobErr, err)
			continue
		}
		run.AddProcessed(1)
		s.metrics.AddBatchProcessed(JobDispatchAlerts, "alert", 1)
	}
	return jobErr
}

func (s *Scheduler) noticeFor(ctx context.Context, alert alertdomain.Alert) notification.Notice {
	notice := notification.Notice{
		AlertID:    alert.ID.String(),
		RechargeID: alert.RechargeID.String(),
		Message:    alert.Message,
		AlertDate:  alert.AlertDate,
	}

	recharge, err := s.rechargeSvc.GetByID(ctx, notice.RechargeID)
	if err != nil {
		if !errors.Is(err, rechargedomain.ErrNotFound) {
			s.logger(ctx).Warn("failed to load recharge for alert",
				zap.String("alert_id", notice.AlertID),
				zap.Error(err),
			)
		}
		return notice
	}
	notice.LineNumber = recharge.LineNumber
	notice.Operator = string(recharge.Operator)
	notice.EndDate = recharge.EndDate
	return notice
}
