/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynarepo

import (
	"github.com/suparena/dynarepo/config"
	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/datastore/ddb"
	"github.com/suparena/dynarepo/entityinfo"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/lifecycle"
	"github.com/suparena/dynarepo/mapping"
	"github.com/suparena/dynarepo/observability"
	"github.com/suparena/dynarepo/repository"
	"go.uber.org/zap"
)

// Options carries the process-wide collaborators used to wire entities.
type Options struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Collector
}

func (o Options) config() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

// NewRepository wires a DynamoDB backed repository for the entity described by md,
// using the table prefix, scan permissions and lookup strategy of the configuration.
func NewRepository[T any, ID any](client ddb.Client, md *mapping.EntityMetadata[T], capability repository.Capability, opts Options, listeners ...repository.BeforeSaveListener[T]) (repository.Repository[T, ID], error) {
	if client == nil {
		return nil, errors.NewIllegalArgumentError("", "client must not be nil")
	}
	if md == nil {
		return nil, errors.NewIllegalArgumentError("", "entity metadata must not be nil")
	}
	cfg := opts.config()

	lookup, err := repository.ParseLookupStrategy(cfg.LookupStrategy)
	if err != nil {
		return nil, err
	}

	store := ddb.NewDynamodbDataStore(client, md,
		ddb.WithTablePrefix(cfg.TablePrefix),
		ddb.WithMetrics(opts.Metrics),
		ddb.WithLogger(opts.Logger))
	info, err := entityinfo.New[T, ID](store.Metadata())
	if err != nil {
		return nil, err
	}

	return repository.NewRepository(capability, repository.Config[T, ID]{
		Store:           store,
		Information:     info,
		ScanPermissions: cfg.ScanPermissions(),
		Listeners:       listeners,
		LookupStrategy:  lookup,
		Logger:          opts.Logger,
	})
}

// NewSynchronizer binds a table synchronizer to the entity described by md, with the
// mode, timeouts and table prefix of the configuration.
func NewSynchronizer[T any](admin datastore.TableAdmin, md *mapping.EntityMetadata[T], opts Options) (*lifecycle.Synchronizer, error) {
	if md == nil {
		return nil, errors.NewIllegalArgumentError("", "entity metadata must not be nil")
	}
	cfg := opts.config()

	schema := md.TableSchema()
	schema.TableName = ddb.ResolveTableName(schema.TableName, "", cfg.TablePrefix)

	syncOpts := []lifecycle.Option{
		lifecycle.WithActiveTimeout(cfg.TableActiveTimeout),
		lifecycle.WithPollInterval(cfg.TablePollInterval),
		lifecycle.WithLogger(opts.Logger),
	}
	if opts.Metrics != nil {
		syncOpts = append(syncOpts, lifecycle.WithMetrics(opts.Metrics))
	}
	return lifecycle.NewSynchronizer(admin, schema, cfg.Mode(), syncOpts...)
}

var _ lifecycle.ActiveWaiter = (*ddb.TableAdmin)(nil)
