package metrics

import (
	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/usecase"
)

// Module provides Metrics and binds it as the payment recorder.
var Module = fx.Provide(
	New,
	func(m *Metrics) usecase.PaymentRecorder { return m },
)
