// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics provides global access to a set of meters.
// It wraps multiple implementations and defaults to a no-op one.
package metrics

import (
	"net/http"
	"sync"
)

var metrics Metrics = noopMetrics{} // defaults to the no-op implementation

// Metrics defines the interface for metrics service implementations.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateHandler() http.Handler
}

// HTTPHandler returns the http handler for scraping metrics.
func HTTPHandler() http.Handler {
	return metrics.GetOrCreateHandler()
}

// CountMeter is a monotonically increasing counter.
type CountMeter interface {
	Add(int64)
}

// Counter returns the count meter with the given name.
func Counter(name string) CountMeter { return metrics.GetOrCreateCountMeter(name) }

// CountVecMeter is a monotonically increasing counter with labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// CounterVec returns the labeled count meter with the given name.
func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.GetOrCreateCountVecMeter(name, labels)
}

// GaugeMeter is a single numeric value which can go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

// Gauge returns the gauge meter with the given name.
func Gauge(name string) GaugeMeter {
	return metrics.GetOrCreateGaugeMeter(name)
}

// LazyLoadCounter defers meter creation to first use, so package-level
// meters resolve against the implementation installed at startup.
func LazyLoadCounter(name string) func() CountMeter {
	var meter CountMeter
	var once sync.Once
	return func() CountMeter {
		once.Do(func() { meter = Counter(name) })
		return meter
	}
}

// LazyLoadCounterVec defers labeled meter creation to first use.
func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	var meter CountVecMeter
	var once sync.Once
	return func() CountVecMeter {
		once.Do(func() { meter = CounterVec(name, labels) })
		return meter
	}
}

// LazyLoadGauge defers gauge creation to first use.
func LazyLoadGauge(name string) func() GaugeMeter {
	var meter GaugeMeter
	var once sync.Once
	return func() GaugeMeter {
		once.Do(func() { meter = Gauge(name) })
		return meter
	}
}
