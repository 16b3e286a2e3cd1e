package hostfuncs

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
)

// Metrics counts host service calls and their failures.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	calls  *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vessel_host_calls_total",
				Help: "Host service calls made on behalf of vessel logic",
			},
			[]string{"op"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vessel_host_call_errors_total",
				Help: "Host service calls that failed, by error type",
			},
			[]string{"op", "type"},
		),
	}
	var err error
	if m.calls, err = register(reg, m.calls); err != nil {
		return nil, err
	}
	if m.errors, err = register(reg, m.errors); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, reusing an identical collector that is already registered.
func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// Observe records one call of op and, when err is non-nil, one failure
// labelled with the error's type.
func (m *Metrics) Observe(op string, err error) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op).Inc()
	if err != nil {
		m.errors.WithLabelValues(op, sdkerrors.ToErrorDetail(err).Type).Inc()
	}
}

// MetricsMiddleware counts registry invocations. A response carrying an
// "error" object counts as a failure of that error's type.
func MetricsMiddleware(m *Metrics) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			op := "unknown"
			if hc, ok := ctx.(HostContext); ok {
				op = hc.FunctionName()
			}
			resp, err := next(ctx, payload)
			if m == nil {
				return resp, err
			}
			m.calls.WithLabelValues(op).Inc()
			switch {
			case err != nil:
				m.errors.WithLabelValues(op, "internal").Inc()
			default:
				if errType := responseErrorType(resp); errType != "" {
					m.errors.WithLabelValues(op, errType).Inc()
				}
			}
			return resp, err
		}
	}
}

// responseErrorType extracts the error type from a wire response, if any.
func responseErrorType(resp []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(resp, &envelope) != nil || len(envelope.Error) == 0 || string(envelope.Error) == "null" {
		return ""
	}
	var detail struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(envelope.Error, &detail) == nil && detail.Type != "" {
		return detail.Type
	}
	// ErrorResponse carries the type as a plain string.
	var code string
	if json.Unmarshal(envelope.Error, &code) == nil && code != "" {
		return code
	}
	return "internal"
}
