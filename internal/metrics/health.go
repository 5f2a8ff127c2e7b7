package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// dependencyState is the last probe outcome of one dependency.
type dependencyState struct {
	up        bool
	checkedAt time.Time
}

// HealthMetrics remembers the outcome of /ready probes and exports it as
// plataforma.dependency.up. The state is usable without a meter.
type HealthMetrics struct {
	up        metric.Int64ObservableGauge
	probeTime metric.Float64Histogram
	build     metric.Int64ObservableGauge

	mu    sync.RWMutex
	state map[string]dependencyState
}

func NewHealthMetrics(meter metric.Meter) (*HealthMetrics, error) {
	hm := NewMockHealth()

	up, err := meter.Int64ObservableGauge("plataforma.dependency.up",
		metric.WithDescription("1 when the last readiness probe of the dependency succeeded"),
		metric.WithUnit("{status}"),
	)
	if err != nil {
		return nil, err
	}

	probeTime, err := meter.Float64Histogram("plataforma.dependency.probe_duration",
		metric.WithDescription("Readiness probe duration per dependency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5),
	)
	if err != nil {
		return nil, err
	}

	build, err := meter.Int64ObservableGauge("plataforma.build.info",
		metric.WithDescription("Constant 1 labelled with the running build"),
	)
	if err != nil {
		return nil, err
	}

	hm.up, hm.probeTime, hm.build = up, probeTime, build
	return hm, nil
}

// NewMockHealth returns HealthMetrics that only tracks dependency state.
func NewMockHealth() *HealthMetrics {
	return &HealthMetrics{state: make(map[string]dependencyState)}
}

// RegisterServiceInfo exports the build labels through plataforma.build.info.
func (hm *HealthMetrics) RegisterServiceInfo(meter metric.Meter, serviceName, version, env string) error {
	if hm.build == nil {
		return nil
	}
	labels := metric.WithAttributes(
		attribute.String("service_name", serviceName),
		attribute.String("version", version),
		attribute.String("environment", env),
	)
	_, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(hm.build, 1, labels)
		return nil
	}, hm.build)
	return err
}

// RegisterDependencies starts tracking names as down until their first probe.
func (hm *HealthMetrics) RegisterDependencies(meter metric.Meter, names ...string) error {
	hm.mu.Lock()
	for _, name := range names {
		if _, ok := hm.state[name]; !ok {
			hm.state[name] = dependencyState{}
		}
	}
	hm.mu.Unlock()

	if hm.up == nil {
		return nil
	}

	_, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		hm.mu.RLock()
		defer hm.mu.RUnlock()
		for name, s := range hm.state {
			var v int64
			if s.up {
				v = 1
			}
			o.ObserveInt64(hm.up, v, metric.WithAttributes(attribute.String("dependency", name)))
		}
		return nil
	}, hm.up)
	return err
}

// Available reports the last known status of dependency.
func (hm *HealthMetrics) Available(dependency string) bool {
	hm.mu.RLock()
	defer hm.mu.RUnlock()
	return hm.state[dependency].up
}

// LastChecked returns when dependency was last probed; zero if never.
func (hm *HealthMetrics) LastChecked(dependency string) time.Time {
	hm.mu.RLock()
	defer hm.mu.RUnlock()
	return hm.state[dependency].checkedAt
}

func (hm *HealthMetrics) RecordDependencyCheck(ctx context.Context, dependency string, duration time.Duration, err error) {
	if hm.probeTime != nil {
		hm.probeTime.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("dependency", dependency)))
	}

	hm.mu.Lock()
	hm.state[dependency] = dependencyState{up: err == nil, checkedAt: time.Now()}
	hm.mu.Unlock()
}
