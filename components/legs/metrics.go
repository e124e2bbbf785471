package legs

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	meterName = "github.com/adammck/strider/components/legs"

	phaseRaise = "raise"
	phasePlant = "plant"
)

type instruments struct {
	steps     metric.Int64Counter
	fallbacks metric.Int64Counter
	resets    metric.Int64Counter
}

// newInstruments creates the counters on m, or on the global provider if m is
// nil. If any can't be created, they're all replaced by no-ops.
func newInstruments(m metric.Meter) *instruments {
	if m == nil {
		m = otel.Meter(meterName)
	}

	i, err := makeInstruments(m)
	if err != nil {
		log.Warnf("metrics disabled: %s", err)
		i, _ = makeInstruments(noop.NewMeterProvider().Meter(meterName))
	}

	return i
}

func makeInstruments(m metric.Meter) (*instruments, error) {
	var err error
	i := &instruments{}

	i.steps, err = m.Int64Counter("strider.steps",
		metric.WithDescription("Leg groups raised or planted."),
		metric.WithUnit("{step}"))
	if err != nil {
		return nil, err
	}

	i.fallbacks, err = m.Int64Counter("strider.probe.fallbacks",
		metric.WithDescription("Foothold probes which fell back to a volume sweep."),
		metric.WithUnit("{probe}"))
	if err != nil {
		return nil, err
	}

	i.resets, err = m.Int64Counter("strider.resets",
		metric.WithDescription("Times the feet were snapped back to rest."),
		metric.WithUnit("{reset}"))
	if err != nil {
		return nil, err
	}

	return i, nil
}

func (i *instruments) step(phase string) {
	i.steps.Add(context.Background(), 1, metric.WithAttributes(attribute.String("phase", phase)))
}

func (i *instruments) fallback() {
	i.fallbacks.Add(context.Background(), 1)
}

func (i *instruments) reset() {
	i.resets.Add(context.Background(), 1)
}
