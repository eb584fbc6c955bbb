/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynarepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/dynarepo/config"
	"github.com/suparena/dynarepo/datastore/mock"
	"github.com/suparena/dynarepo/datastore/testmodels"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/lifecycle"
)

func createDropConfig() *config.Config {
	cfg := config.Default()
	cfg.Entity2DDL = "create-drop"
	cfg.TablePrefix = "test_"
	return cfg
}

func TestLifecycle_StartsInOrderAndStopsInReverse(t *testing.T) {
	ctx := context.Background()
	admin := mock.NewTableAdmin()
	opts := Options{Config: createDropConfig()}

	users, err := NewSynchronizer(admin, testmodels.UserSchema().MustBuild(), opts)
	require.NoError(t, err)
	playlists, err := NewSynchronizer(admin, testmodels.PlaylistSchema().MustBuild(), opts)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ModeCreateDrop, users.Mode())

	l := NewLifecycle(nil)
	require.NoError(t, l.Register(users))
	require.NoError(t, l.Register(playlists))
	assert.Equal(t, []string{"test_Users", "test_Playlists"}, l.Tables())

	require.NoError(t, l.Start(ctx))
	require.NoError(t, l.Stop(ctx))
	assert.Equal(t, []string{
		"CreateTable:test_Users",
		"DescribeTable:test_Users",
		"CreateTable:test_Playlists",
		"DescribeTable:test_Playlists",
		"DeleteTable:test_Playlists",
		"DeleteTable:test_Users",
	}, admin.Calls())
}

func TestLifecycle_RejectsDuplicateTables(t *testing.T) {
	admin := mock.NewTableAdmin()
	md := testmodels.UserSchema().MustBuild()
	first, err := NewSynchronizer(admin, md, Options{})
	require.NoError(t, err)
	second, err := NewSynchronizer(admin, md, Options{})
	require.NoError(t, err)

	l := NewLifecycle(nil)
	require.NoError(t, l.Register(first))
	assert.True(t, errors.IsAlreadyExists(l.Register(second)))
	assert.True(t, errors.IsIllegalArgument(l.Register(nil)))
}

func TestLifecycle_DropToleratesMissingTables(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Entity2DDL = "drop"
	admin := mock.NewTableAdmin()
	admin.SetTable(testmodels.UserSchema().MustBuild().TableSchema())

	users, err := NewSynchronizer(admin, testmodels.UserSchema().MustBuild(), Options{Config: cfg})
	require.NoError(t, err)
	playlists, err := NewSynchronizer(admin, testmodels.PlaylistSchema().MustBuild(), Options{Config: cfg})
	require.NoError(t, err)

	l := NewLifecycle(nil)
	require.NoError(t, l.Register(users))
	require.NoError(t, l.Register(playlists))

	require.NoError(t, l.Start(ctx))
	assert.Empty(t, admin.Calls())
	require.NoError(t, l.Stop(ctx))
	assert.Equal(t, []string{"DeleteTable:Playlists", "DeleteTable:Users"}, admin.Calls())

	_, exists := admin.Schema("Users")
	assert.False(t, exists)
}
