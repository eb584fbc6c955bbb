//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynarepo_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/dynarepo"
	"github.com/suparena/dynarepo/config"
	"github.com/suparena/dynarepo/datastore/ddb"
	"github.com/suparena/dynarepo/datastore/testmodels"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/query"
	"github.com/suparena/dynarepo/repository"
	"github.com/suparena/dynarepo/storagemodels"
)

// Runs against DynamoDB Local, e.g. docker run -p 8000:8000 amazon/dynamodb-local
func setupIntegration(t *testing.T) (ddb.Client, dynarepo.Options) {
	t.Helper()
	endpoint := os.Getenv("DYNAREPO_ENDPOINT")
	if endpoint == "" {
		t.Skip("DYNAREPO_ENDPOINT not set")
	}

	cfg := config.Default()
	cfg.AWS.Endpoint = endpoint
	cfg.AWS.AccessKey = "local"
	cfg.AWS.SecretKey = "local"
	cfg.TablePrefix = fmt.Sprintf("it_%d_", time.Now().UnixNano())
	cfg.Entity2DDL = "create-drop"
	cfg.Scan.FindAllUnpaginated = true
	cfg.Scan.CountUnpaginated = true
	cfg.Scan.DeleteAllUnpaginated = true
	cfg.Scan.FindAllPaginated = true
	require.NoError(t, cfg.Validate())

	client, err := ddb.NewDynamoDBClient(context.Background(), cfg.ClientOptions())
	require.NoError(t, err)
	return client, dynarepo.Options{Config: cfg}
}

func TestIntegration_PlaylistRepository(t *testing.T) {
	ctx := context.Background()
	client, opts := setupIntegration(t)
	md := testmodels.PlaylistSchema().MustBuild()

	sync, err := dynarepo.NewSynchronizer(ddb.NewTableAdmin(client, nil), md, opts)
	require.NoError(t, err)
	tables := dynarepo.NewLifecycle(nil)
	require.NoError(t, tables.Register(sync))
	require.NoError(t, tables.Start(ctx))
	defer func() { assert.NoError(t, tables.Stop(ctx)) }()

	repo, err := dynarepo.NewRepository[testmodels.Playlist, testmodels.PlaylistID](client, md,
		repository.CapabilityPagingAndSorting, opts)
	require.NoError(t, err)

	var playlists []testmodels.Playlist
	for i := range 30 {
		playlists = append(playlists, testmodels.Playlist{
			UserName:     "dave",
			PlaylistName: fmt.Sprintf("list-%02d", i),
			DisplayName:  fmt.Sprintf("List %d", i),
		})
	}
	_, err = repo.SaveAll(ctx, playlists)
	require.NoError(t, err)

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, testmodels.PlaylistID{UserName: "dave", PlaylistName: "list-07"})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "List 7", got.DisplayName)
	})

	t.Run("paged query method", func(t *testing.T) {
		e, err := repo.QueryMethod(repository.QueryMethod{
			Name:    "findByUserName",
			Returns: repository.ReturnsPage,
			Predicate: func(args []any) (*query.Predicate, error) {
				return query.NewPredicate(query.Where("UserName", query.OpEQ, args[0])), nil
			},
		})
		require.NoError(t, err)

		out, err := e.Execute(ctx, "dave", storagemodels.PageRequest(2, 10,
			storagemodels.Sort{Property: "PlaylistName", Descending: true}))
		require.NoError(t, err)
		assert.Equal(t, int64(30), out.Page.Total)
		require.Len(t, out.Page.Content, 10)
		assert.Equal(t, "list-09", out.Page.Content[0].PlaylistName)
	})

	t.Run("count and delete", func(t *testing.T) {
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(30), n)

		err = repo.DeleteByID(ctx, testmodels.PlaylistID{UserName: "sue", PlaylistName: "none"})
		assert.True(t, errors.IsEmptyResult(err))

		require.NoError(t, repo.DeleteAll(ctx))
		n, err = repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
