/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/suparena/dynarepo/observability"
)

type status struct {
	ready atomic.Bool
}

func newStatus() *status { return &status{} }

func (s *status) markReady() { s.ready.Store(true) }

// newRouter serves liveness, readiness once all tables are started, and the metrics
// of the collector when there is one.
func newRouter(metrics *observability.Collector, st *status) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if !st.ready.Load() {
			http.Error(w, "tables not ready", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ready"))
	})
	if metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	}
	return r
}

func newServer(addr string, metrics *observability.Collector, st *status) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           newRouter(metrics, st),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
