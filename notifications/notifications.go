package notifications

import (
	"context"

	"go.uber.org/zap"
)

// Notifier is the notification sink for clinically relevant follow-up
// events. Delivery (SMS, email, dashboard alerts) is owned by the
// surrounding application.
type Notifier interface {
	VisitMissed(ctx context.Context, patientId string, visitId string, visitType string) error
}

func NewLogNotifier(logger *zap.SugaredLogger) Notifier {
	return &logNotifier{logger: logger}
}

type logNotifier struct {
	logger *zap.SugaredLogger
}

func (n *logNotifier) VisitMissed(ctx context.Context, patientId string, visitId string, visitType string) error {
	n.logger.Infow("visit missed notification",
		"patientId", patientId,
		"visitId", visitId,
		"visitType", visitType,
	)
	return nil
}
