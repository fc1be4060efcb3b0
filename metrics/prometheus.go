// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "meridian_metrics"

var logger = log.New("pkg", "metrics")

// InitializePrometheusMetrics creates a new instance of the Prometheus
// service and sets the implementation as the default metrics service.
func InitializePrometheusMetrics() {
	// don't allow for reset
	if _, ok := metrics.(*prometheusMetrics); !ok {
		metrics = &prometheusMetrics{}
	}
}

type prometheusMetrics struct {
	counters    sync.Map
	counterVecs sync.Map
	gauges      sync.Map
}

func (o *prometheusMetrics) GetOrCreateCountMeter(name string) CountMeter {
	if loaded, ok := o.counters.Load(name); ok {
		return loaded.(CountMeter)
	}
	meter, err := o.newCountMeter(name)
	if err != nil {
		logger.Warn("unable to register count meter", "name", name, "error", err)
		return noopMeter{}
	}
	o.counters.Store(name, meter)
	return meter
}

func (o *prometheusMetrics) GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter {
	if loaded, ok := o.counterVecs.Load(name); ok {
		return loaded.(CountVecMeter)
	}
	meter, err := o.newCountVecMeter(name, labels)
	if err != nil {
		logger.Warn("unable to register labeled count meter", "name", name, "error", err)
		return noopMeter{}
	}
	o.counterVecs.Store(name, meter)
	return meter
}

func (o *prometheusMetrics) GetOrCreateGaugeMeter(name string) GaugeMeter {
	if loaded, ok := o.gauges.Load(name); ok {
		return loaded.(GaugeMeter)
	}
	meter, err := o.newGaugeMeter(name)
	if err != nil {
		logger.Warn("unable to register gauge meter", "name", name, "error", err)
		return noopMeter{}
	}
	o.gauges.Store(name, meter)
	return meter
}

func (o *prometheusMetrics) GetOrCreateHandler() http.Handler {
	return promhttp.Handler()
}

func (o *prometheusMetrics) newCountMeter(name string) (CountMeter, error) {
	meter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
	})
	if err := prometheus.Register(meter); err != nil {
		return nil, err
	}
	return &promCountMeter{counter: meter}, nil
}

func (o *prometheusMetrics) newCountVecMeter(name string, labels []string) (CountVecMeter, error) {
	meter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
	}, labels)
	if err := prometheus.Register(meter); err != nil {
		return nil, err
	}
	return &promCountVecMeter{counter: meter}, nil
}

func (o *prometheusMetrics) newGaugeMeter(name string) (GaugeMeter, error) {
	meter := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
	})
	if err := prometheus.Register(meter); err != nil {
		return nil, err
	}
	return &promGaugeMeter{gauge: meter}, nil
}

type promCountMeter struct {
	counter prometheus.Counter
}

func (c *promCountMeter) Add(v int64) {
	c.counter.Add(float64(v))
}

type promCountVecMeter struct {
	counter *prometheus.CounterVec
}

func (c *promCountVecMeter) AddWithLabel(v int64, labels map[string]string) {
	c.counter.With(labels).Add(float64(v))
}

type promGaugeMeter struct {
	gauge prometheus.Gauge
}

func (g *promGaugeMeter) Add(v int64) {
	g.gauge.Add(float64(v))
}

func (g *promGaugeMeter) Set(v int64) {
	g.gauge.Set(float64(v))
}
