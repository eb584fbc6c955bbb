/*
Package dynarepo provides repository-pattern data access to Amazon DynamoDB for Go
applications.

Entities are declared once with an explicit schema. Repositories, query methods and table
lifecycle management are built from that declaration:

  - mapping: entity schemas, key roles, attribute name overrides and marshallers
  - entityinfo: id to hash and range key resolution
  - query: single-result and list queries, and the query creator
  - repository: CRUD and paging repositories and derived query methods
  - lifecycle: table creation and removal on process start and stop
  - datastore/ddb: the DynamoDB store with metrics, tracing and a circuit breaker

Basic Usage:

	cfg, err := config.Load("dynarepo.yaml")
	client, err := ddb.NewDynamoDBClient(ctx, cfg.ClientOptions())
	md := mapping.NewSchema[User]("Users",
	    mapping.HashKey("ID", func(u User) string { return u.ID }).WithAttributeName("id"),
	    mapping.Attribute("Name", func(u User) string { return u.Name }),
	).MustBuild()

	opts := dynarepo.Options{Config: cfg, Logger: logger}
	users, err := dynarepo.NewRepository[User, string](client, md, repository.CapabilityCrud, opts)

	sync, err := dynarepo.NewSynchronizer(ddb.NewTableAdmin(client, logger), md, opts)
	tables := dynarepo.NewLifecycle(logger)
	err = tables.Register(sync)
	err = tables.Start(ctx)
	defer tables.Stop(ctx)

	saved, err := users.Save(ctx, User{Name: "Dave"})
*/
package dynarepo
