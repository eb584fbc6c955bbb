/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dsmock "github.com/suparena/dynarepo/datastore/mock"
	"github.com/suparena/dynarepo/datastore/testmodels"
	"github.com/suparena/dynarepo/entityinfo"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/query"
	"github.com/suparena/dynarepo/storagemodels"
)

type playlistFixture struct {
	info  entityinfo.Information[testmodels.Playlist, testmodels.PlaylistID]
	store *dsmock.DataStore[testmodels.Playlist]
}

func newPlaylistFixture(t *testing.T) playlistFixture {
	t.Helper()
	info, err := entityinfo.New[testmodels.Playlist, testmodels.PlaylistID](testmodels.PlaylistSchema().MustBuild())
	require.NoError(t, err)
	store := dsmock.New(info.Metadata())
	store.SetData(
		testmodels.Playlist{UserName: "dave", PlaylistName: "blues"},
		testmodels.Playlist{UserName: "dave", PlaylistName: "jazz"},
		testmodels.Playlist{UserName: "dave", PlaylistName: "pop"},
		testmodels.Playlist{UserName: "dave", PlaylistName: "rock"},
		testmodels.Playlist{UserName: "sue", PlaylistName: "soul"},
	)
	store.ResetCalls()
	return playlistFixture{info: info, store: store}
}

func (f playlistFixture) executor(t *testing.T, method QueryMethod) *Executor[testmodels.Playlist, testmodels.PlaylistID] {
	t.Helper()
	e, err := NewExecutor(method, f.info, f.store, nil)
	require.NoError(t, err)
	return e
}

func byUserName(args []any) (*query.Predicate, error) {
	return query.NewPredicate(query.Where("UserName", query.OpEQ, args[0])), nil
}

func byUserAndPlaylistName(args []any) (*query.Predicate, error) {
	return query.NewPredicate(
		query.Where("UserName", query.OpEQ, args[0]),
		query.Where("PlaylistName", query.OpEQ, args[1]),
	), nil
}

func names(playlists []testmodels.Playlist) []string {
	out := make([]string, len(playlists))
	for i, p := range playlists {
		out[i] = p.PlaylistName
	}
	return out
}

func TestExecute_SingleEntity(t *testing.T) {
	ctx := context.Background()
	f := newPlaylistFixture(t)
	e := f.executor(t, QueryMethod{Name: "findByUserNameAndPlaylistName", Returns: ReturnsSingle, Predicate: byUserAndPlaylistName})

	out, err := e.Execute(ctx, "dave", "jazz")
	require.NoError(t, err)
	assert.Equal(t, OutcomeEntity, out.Kind)
	assert.Equal(t, "jazz", out.Entity.PlaylistName)

	out, err = e.Execute(ctx, "dave", "metal")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAbsent, out.Kind)
	assert.Nil(t, out.Entity)

	assert.Equal(t, []string{dsmock.OpLoad, dsmock.OpLoad}, f.store.Calls())
}

func TestExecute_SingleEntityWithManyResults(t *testing.T) {
	f := newPlaylistFixture(t)
	e := f.executor(t, QueryMethod{Name: "findByUserName", Returns: ReturnsSingle, Predicate: byUserName})

	_, err := e.Execute(context.Background(), "dave")
	require.Error(t, err)
	assert.True(t, errors.IsIncorrectResultSize(err))
}

func TestExecute_Collection(t *testing.T) {
	ctx := context.Background()
	f := newPlaylistFixture(t)

	out, err := f.executor(t, QueryMethod{Name: "findByUserName", Predicate: byUserName}).Execute(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, OutcomeList, out.Kind)
	assert.Equal(t, []string{"blues", "jazz", "pop", "rock"}, names(out.List))

	limited := f.executor(t, QueryMethod{Name: "findFirst3ByUserName", ResultLimit: 3, Predicate: byUserName})
	out, err = limited.Execute(ctx, "dave")
	require.NoError(t, err)
	assert.Len(t, out.List, 3)
}

func TestExecute_Page(t *testing.T) {
	ctx := context.Background()
	f := newPlaylistFixture(t)
	e := f.executor(t, QueryMethod{Name: "findByUserName", Returns: ReturnsPage, Predicate: byUserName})

	out, err := e.Execute(ctx, "dave", storagemodels.PageRequest(1, 3))
	require.NoError(t, err)
	assert.Equal(t, OutcomePage, out.Kind)
	assert.Equal(t, []string{"rock"}, names(out.Page.Content))
	assert.Equal(t, int64(4), out.Page.Total)
	assert.Equal(t, 2, out.Page.TotalPages())
	assert.False(t, out.Page.HasNext())

	// content and total are read with separate store calls
	assert.Equal(t, []string{dsmock.OpQuery, dsmock.OpCountQuery}, f.store.Calls())
}

func TestExecute_PageSortedOnRangeKey(t *testing.T) {
	f := newPlaylistFixture(t)
	e := f.executor(t, QueryMethod{Name: "findByUserName", Returns: ReturnsPage, Predicate: byUserName})

	out, err := e.Execute(context.Background(), "dave",
		storagemodels.PageRequest(0, 2, storagemodels.Sort{Property: "PlaylistName", Descending: true}))
	require.NoError(t, err)
	assert.Equal(t, []string{"rock", "pop"}, names(out.Page.Content))
	assert.True(t, out.Page.HasNext())

	_, err = e.Execute(context.Background(), "dave",
		storagemodels.PageRequest(0, 2, storagemodels.Sort{Property: "DisplayName"}))
	assert.True(t, errors.IsIllegalArgument(err))
}

func TestExecute_UnpagedPage(t *testing.T) {
	f := newPlaylistFixture(t)
	e := f.executor(t, QueryMethod{Name: "findByUserName", Returns: ReturnsPage, Predicate: byUserName})

	out, err := e.Execute(context.Background(), "dave", storagemodels.Unpaged())
	require.NoError(t, err)
	assert.Len(t, out.Page.Content, 4)
	assert.Equal(t, int64(4), out.Page.Total)
	assert.Zero(t, f.store.CallCount(dsmock.OpCountQuery))
}

func TestExecute_CountAndExists(t *testing.T) {
	ctx := context.Background()
	f := newPlaylistFixture(t)

	out, err := f.executor(t, QueryMethod{Name: "countByUserName", Kind: KindCount, Predicate: byUserName}).Execute(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCount, out.Kind)
	assert.Equal(t, int64(4), out.Count)

	exists := f.executor(t, QueryMethod{Name: "existsByUserName", Kind: KindExists, Predicate: byUserName})
	out, err = exists.Execute(ctx, "sue")
	require.NoError(t, err)
	assert.True(t, out.Exists)

	out, err = exists.Execute(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, out.Exists)
}

func TestExecute_Delete(t *testing.T) {
	f := newPlaylistFixture(t)
	e := f.executor(t, QueryMethod{Name: "deleteByUserName", Kind: KindDelete, Predicate: byUserName})

	out, err := e.Execute(context.Background(), "sue")
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeleted, out.Kind)
	assert.Equal(t, []string{"soul"}, names(out.List))
	assert.Equal(t, 4, f.store.Count())
	assert.Equal(t, []string{dsmock.OpQuery, dsmock.OpBatchDelete}, f.store.Calls())
}

func TestExecute_RangeKeyAndFilterConditions(t *testing.T) {
	ctx := context.Background()
	f := newPlaylistFixture(t)
	after := func(args []any) (*query.Predicate, error) {
		return query.NewPredicate(
			query.Where("UserName", query.OpEQ, args[0]),
			query.Where("PlaylistName", query.OpGT, args[1]),
		), nil
	}
	withDisplayName := func(args []any) (*query.Predicate, error) {
		return query.NewPredicate(
			query.Where("UserName", query.OpEQ, args[0]),
			query.Where("DisplayName", query.OpEQ, args[1]),
		), nil
	}

	out, err := f.executor(t, QueryMethod{Name: "findByUserNameAndPlaylistNameGreaterThan", Predicate: after}).Execute(ctx, "dave", "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"pop", "rock"}, names(out.List))

	out, err = f.executor(t, QueryMethod{Name: "countByUserNameAndPlaylistNameGreaterThan", Kind: KindCount, Predicate: after}).Execute(ctx, "dave", "p")
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Count)

	out, err = f.executor(t, QueryMethod{Name: "findByUserNameAndDisplayName", Predicate: withDisplayName}).Execute(ctx, "dave", "nope")
	require.NoError(t, err)
	assert.Empty(t, out.List)

	page, err := f.executor(t, QueryMethod{Name: "findByUserNameAndPlaylistNameGreaterThan", Returns: ReturnsPage, Predicate: after}).
		Execute(ctx, "dave", "c", storagemodels.PageRequest(0, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"jazz", "pop"}, names(page.Page.Content))
	assert.Equal(t, int64(3), page.Page.Total)
}

func TestExecute_ScanWithFilter(t *testing.T) {
	f := newPlaylistFixture(t)
	startsWithS := func([]any) (*query.Predicate, error) {
		return query.NewPredicate(query.Where("PlaylistName", query.OpBeginsWith, "s")), nil
	}

	e := f.executor(t, QueryMethod{Name: "findByPlaylistNameStartingWith", ScanEnabled: true, Predicate: startsWithS})
	out, err := e.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"soul"}, names(out.List))
	assert.Equal(t, []string{dsmock.OpScan}, f.store.Calls())
}

func TestExecute_ScanDisabled(t *testing.T) {
	f := newPlaylistFixture(t)
	byDisplayName := func([]any) (*query.Predicate, error) {
		return query.NewPredicate(query.Where("DisplayName", query.OpNotNull)), nil
	}

	e := f.executor(t, QueryMethod{Name: "findByDisplayNameIsNotNull", Predicate: byDisplayName})
	_, err := e.Execute(context.Background())
	assert.True(t, errors.IsScanDisabled(err))
	assert.Empty(t, f.store.Calls())

	e = f.executor(t, QueryMethod{Name: "findByDisplayNameIsNotNull", ScanEnabled: true, Predicate: byDisplayName})
	_, err = e.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.CallCount(dsmock.OpScan))
}

func TestNewExecutor_Validates(t *testing.T) {
	f := newPlaylistFixture(t)

	tests := []struct {
		name   string
		method QueryMethod
	}{
		{"empty name", QueryMethod{Predicate: byUserName}},
		{"no predicate", QueryMethod{Name: "findByUserName"}},
		{"page of count", QueryMethod{Name: "countByUserName", Kind: KindCount, Returns: ReturnsPage, Predicate: byUserName}},
		{"negative limit", QueryMethod{Name: "findByUserName", ResultLimit: -1, Predicate: byUserName}},
		{"unknown kind", QueryMethod{Name: "findByUserName", Kind: Kind(9), Predicate: byUserName}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExecutor(tt.method, f.info, f.store, nil)
			assert.True(t, errors.IsIllegalArgument(err))
		})
	}
}

func TestLookupStrategy(t *testing.T) {
	s, err := ParseLookupStrategy("")
	require.NoError(t, err)
	assert.Equal(t, LookupCreateIfNotFound, s)

	s, err = ParseLookupStrategy("create-if-not-found")
	require.NoError(t, err)
	assert.Equal(t, LookupCreateIfNotFound, s)

	_, err = ParseLookupStrategy("guess")
	assert.True(t, errors.IsIllegalArgument(err))

	f := newPlaylistFixture(t)
	_, err = NewCrudRepository(Config[testmodels.Playlist, testmodels.PlaylistID]{
		Store:          f.store,
		Information:    f.info,
		LookupStrategy: LookupUseDeclaredQuery,
	})
	require.Error(t, err)
	assert.EqualError(t, err, "Unsupported query lookup strategy USE_DECLARED_QUERY!")
}
