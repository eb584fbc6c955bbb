/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/dynarepo/config"
	"github.com/suparena/dynarepo/datastore/mock"
	"github.com/suparena/dynarepo/observability"
	"github.com/suparena/dynarepo/storagemodels"
)

func TestBuildLifecycle(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Entity2DDL = "create"
	cfg.TablePrefix = "dev_"
	cfg.Tables = []config.TableConfig{
		{Name: "Users", HashKey: config.KeyConfig{Name: "id"}},
		{Name: "Playlists", HashKey: config.KeyConfig{Name: "userName"}, RangeKey: &config.KeyConfig{Name: "playlistName"}},
	}
	admin := mock.NewTableAdmin()
	metrics := observability.NewCollector("tablesync_test")

	tables, err := buildLifecycle(cfg, admin, nil, metrics)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev_Users", "dev_Playlists"}, tables.Tables())

	require.NoError(t, tables.Start(ctx))
	schema, ok := admin.Schema("dev_Playlists")
	require.True(t, ok)
	assert.Equal(t, &storagemodels.KeyDefinition{Name: "playlistName", Kind: storagemodels.KeyKindS}, schema.RangeKey)

	require.NoError(t, tables.Stop(ctx))
	_, ok = admin.Schema("dev_Users")
	assert.False(t, ok)
}

func TestBuildLifecycle_DuplicateTable(t *testing.T) {
	cfg := config.Default()
	cfg.Tables = []config.TableConfig{
		{Name: "Users", HashKey: config.KeyConfig{Name: "id"}},
		{Name: "Users", HashKey: config.KeyConfig{Name: "id"}},
	}
	_, err := buildLifecycle(cfg, mock.NewTableAdmin(), nil, nil)
	assert.Error(t, err)
}

func TestRouter(t *testing.T) {
	metrics := observability.NewCollector("tablesync_test")
	metrics.RecordTableTransition("Users", "create")
	st := newStatus()
	router := newRouter(metrics, st)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get("/ready").Code)
	st.markReady()
	assert.Equal(t, http.StatusOK, get("/ready").Code)

	rec := get("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tablesync_test")

	rec = httptest.NewRecorder()
	newRouter(nil, st).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
