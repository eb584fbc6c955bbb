/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/datastore/mock"
	"github.com/suparena/dynarepo/datastore/testmodels"
	"github.com/suparena/dynarepo/entityinfo"
	"github.com/suparena/dynarepo/errors"
)

func userCreator(t *testing.T) (*Creator[testmodels.User, string], *mock.DataStore[testmodels.User]) {
	t.Helper()
	md := testmodels.UserSchema().MustBuild()
	info, err := entityinfo.New[testmodels.User, string](md)
	require.NoError(t, err)
	store := mock.New(md)
	store.SetData(testmodels.User{ID: "u1", Name: "Dave"}, testmodels.User{ID: "u2", Name: "Sue"})
	store.ResetCalls()
	return NewCreator(info, store), store
}

func playlistCreator(t *testing.T) (*Creator[testmodels.Playlist, testmodels.PlaylistID], *mock.DataStore[testmodels.Playlist]) {
	t.Helper()
	md := testmodels.PlaylistSchema().MustBuild()
	info, err := entityinfo.New[testmodels.Playlist, testmodels.PlaylistID](md)
	require.NoError(t, err)
	store := mock.New(md)
	store.SetData(
		testmodels.Playlist{UserName: "dave", PlaylistName: "jazz"},
		testmodels.Playlist{UserName: "dave", PlaylistName: "rock"},
		testmodels.Playlist{UserName: "sue", PlaylistName: "pop"},
	)
	store.ResetCalls()
	return NewCreator(info, store), store
}

func attributeNames(names map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n)
	}
	return out
}

func TestCreateQuery_HashKeyEqualityLoads(t *testing.T) {
	creator, store := userCreator(t)

	q, err := creator.CreateQuery(NewPredicate(Where("Id", OpEQ, "u1")), false)
	require.NoError(t, err)
	assert.IsType(t, &LoadByKeyQuery[testmodels.User]{}, q)

	got, err := q.SingleResult(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dave", got.Name)
	assert.Equal(t, []string{mock.OpLoad}, store.Calls())
}

func TestCreateQuery_FullCompositeKeyLoads(t *testing.T) {
	creator, _ := playlistCreator(t)

	q, err := creator.CreateQuery(NewPredicate(
		Where("UserName", OpEQ, "dave"),
		Where("PlaylistName", OpEQ, "rock"),
	), false)
	require.NoError(t, err)
	assert.IsType(t, &LoadByKeyQuery[testmodels.Playlist]{}, q)

	q, err = creator.CreateQuery(NewPredicate(
		Where("ID", OpEQ, testmodels.PlaylistID{UserName: "dave", PlaylistName: "rock"}),
	), false)
	require.NoError(t, err)
	got, err := q.SingleResult(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "rock", got.PlaylistName)
}

func TestCreateQuery_HashKeyOnlyQueries(t *testing.T) {
	creator, store := playlistCreator(t)

	q, err := creator.CreateQuery(NewPredicate(Where("UserName", OpEQ, "dave")), false)
	require.NoError(t, err)
	require.IsType(t, &QueryExpressionQuery[testmodels.Playlist]{}, q)

	expr := q.(*QueryExpressionQuery[testmodels.Playlist]).Expression
	assert.Equal(t, "dave", expr.HashKey)
	assert.NotEmpty(t, expr.KeyConditionExpression)
	assert.Nil(t, expr.FilterExpression)
	assert.Contains(t, attributeNames(expr.ExpressionAttributeNames), "userName")

	list, err := q.ResultList(context.Background())
	require.NoError(t, err)
	items, err := datastore.Collect(context.Background(), list)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = q.SingleResult(context.Background())
	assert.True(t, errors.IsIncorrectResultSize(err))
	assert.Zero(t, store.CallCount(mock.OpScan))
}

func TestCreateQuery_RangeConditionInKeyCondition(t *testing.T) {
	creator, _ := playlistCreator(t)

	q, err := creator.CreateQuery(&Predicate{
		Conditions: []Condition{
			Where("UserName", OpEQ, "dave"),
			Where("PlaylistName", OpBeginsWith, "j"),
			Where("DisplayName", OpNotNull),
		},
		Limit:      5,
		Descending: true,
	}, false)
	require.NoError(t, err)

	expr := q.(*QueryExpressionQuery[testmodels.Playlist]).Expression
	assert.Contains(t, expr.KeyConditionExpression, "begins_with")
	require.NotNil(t, expr.FilterExpression)
	assert.Contains(t, *expr.FilterExpression, "attribute_exists")
	assert.ElementsMatch(t, []string{"userName", "playlistName", "DisplayName"}, attributeNames(expr.ExpressionAttributeNames))
	assert.Equal(t, int32(5), aws.ToInt32(expr.Limit))
	assert.False(t, aws.ToBool(expr.ScanIndexForward))
}

func TestCreateQuery_HashKeyWithFilter(t *testing.T) {
	creator, _ := userCreator(t)

	q, err := creator.CreateQuery(NewPredicate(
		Where("Id", OpEQ, "u1"),
		Where("Name", OpEQ, "Dave"),
	), false)
	require.NoError(t, err)
	require.IsType(t, &QueryExpressionQuery[testmodels.User]{}, q)

	expr := q.(*QueryExpressionQuery[testmodels.User]).Expression
	require.NotNil(t, expr.FilterExpression)
	assert.ElementsMatch(t, []string{"id", "Name"}, attributeNames(expr.ExpressionAttributeNames))
}

func TestCreateQuery_ScanRequiresPermission(t *testing.T) {
	creator, store := userCreator(t)

	_, err := creator.CreateQuery(NewPredicate(Where("Name", OpEQ, "Dave")), false)
	require.Error(t, err)
	assert.True(t, errors.IsScanDisabled(err))
	assert.Empty(t, store.Calls())

	q, err := creator.CreateQuery(NewPredicate(Where("Name", OpEQ, "Dave")), true)
	require.NoError(t, err)
	require.IsType(t, &ScanExpressionQuery[testmodels.User]{}, q)
	assert.NotNil(t, q.(*ScanExpressionQuery[testmodels.User]).Expression.FilterExpression)
}

func TestCreateQuery_NoConditionsScansEverything(t *testing.T) {
	creator, _ := userCreator(t)

	q, err := creator.CreateQuery(nil, true)
	require.NoError(t, err)

	expr := q.(*ScanExpressionQuery[testmodels.User]).Expression
	assert.Nil(t, expr.FilterExpression)

	list, err := q.ResultList(context.Background())
	require.NoError(t, err)
	items, err := datastore.Collect(context.Background(), list)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCreateQuery_AppliesMarshaller(t *testing.T) {
	creator, _ := userCreator(t)
	leave := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	q, err := creator.CreateQuery(NewPredicate(Where("LeaveDate", OpGT, leave)), true)
	require.NoError(t, err)

	expr := q.(*ScanExpressionQuery[testmodels.User]).Expression
	assert.Contains(t, attributeNames(expr.ExpressionAttributeNames), "LeaveDate")

	values := make([]types.AttributeValue, 0, len(expr.ExpressionAttributeValues))
	for _, v := range expr.ExpressionAttributeValues {
		values = append(values, v)
	}
	assert.Contains(t, values, &types.AttributeValueMemberS{Value: "1709294400"})
}

func TestCreateQuery_InvalidConditions(t *testing.T) {
	creator, _ := userCreator(t)
	playlists, _ := playlistCreator(t)

	tests := []struct {
		name string
		run  func() error
	}{
		{"between with one value", func() error {
			_, err := creator.CreateQuery(NewPredicate(Where("Name", OpBetween, "a")), true)
			return err
		}},
		{"eq without value", func() error {
			_, err := creator.CreateQuery(NewPredicate(Where("Name", OpEQ)), true)
			return err
		}},
		{"unknown operator", func() error {
			_, err := creator.CreateQuery(NewPredicate(Where("Name", Operator("LIKE"), "a")), true)
			return err
		}},
		{"hash key of wrong type", func() error {
			_, err := creator.CreateQuery(NewPredicate(Where("Id", OpEQ, 42)), true)
			return err
		}},
		{"contains on a number", func() error {
			_, err := creator.CreateQuery(NewPredicate(Where("NumberOfPlaylists", OpContains, 3)), true)
			return err
		}},
		{"composite id without key value", func() error {
			_, err := playlists.CreateQuery(NewPredicate(Where("ID", OpEQ, "dave")), true)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.IsIllegalArgument(tt.run()))
		})
	}
}

func TestCreateCountQuery(t *testing.T) {
	ctx := context.Background()
	creator, store := playlistCreator(t)

	q, err := creator.CreateCountQuery(NewPredicate(
		Where("UserName", OpEQ, "dave"),
		Where("PlaylistName", OpEQ, "jazz"),
	), false)
	require.NoError(t, err)
	n, err := q.SingleResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *n)

	q, err = creator.CreateCountQuery(NewPredicate(Where("UserName", OpEQ, "dave")), false)
	require.NoError(t, err)
	n, err = q.SingleResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *n)

	_, err = creator.CreateCountQuery(NewPredicate(Where("DisplayName", OpNull)), false)
	assert.True(t, errors.IsScanDisabled(err))

	q, err = creator.CreateCountQuery(NewPredicate(), true)
	require.NoError(t, err)
	n, err = q.SingleResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), *n)

	assert.Equal(t, 1, store.CallCount(mock.OpCountQuery))
	assert.Equal(t, 1, store.CallCount(mock.OpCountScan))
}

func TestCreateQuery_ClampsLimit(t *testing.T) {
	creator, _ := playlistCreator(t)

	q, err := creator.CreateQuery(&Predicate{
		Conditions: []Condition{Where("UserName", OpEQ, "dave")},
		Limit:      math.MaxInt,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), aws.ToInt32(q.(*QueryExpressionQuery[testmodels.Playlist]).Expression.Limit))

	q, err = creator.CreateQuery(&Predicate{
		Conditions: []Condition{Where("DisplayName", OpNotNull)},
		Limit:      math.MaxInt,
	}, true)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), aws.ToInt32(q.(*ScanExpressionQuery[testmodels.Playlist]).Expression.Limit))
}

func TestCreateQuery_CarriesConditions(t *testing.T) {
	ctx := context.Background()
	creator, _ := playlistCreator(t)

	q, err := creator.CreateQuery(NewPredicate(
		Where("PlaylistName", OpIn, "jazz", "pop"),
		Where("UserName", OpEQ, "dave"),
	), false)
	require.NoError(t, err)

	expr := q.(*QueryExpressionQuery[testmodels.Playlist]).Expression
	require.Len(t, expr.Conditions, 2)
	assert.Equal(t, "UserName", expr.Conditions[0].Property)
	assert.Equal(t, "IN", expr.Conditions[1].Operator)

	list, err := q.ResultList(ctx)
	require.NoError(t, err)
	items, err := datastore.Collect(ctx, list)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "jazz", items[0].PlaylistName)
}
