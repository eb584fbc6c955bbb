/*
Package lifecycle creates and drops the table of an entity when the owning process starts
and stops.

A Synchronizer is bound to one table and one Mode:

	sync, err := lifecycle.NewSynchronizer(admin, md.TableSchema(), lifecycle.ModeCreateDrop,
	    lifecycle.WithActiveTimeout(time.Minute), lifecycle.WithLogger(logger))
	if err := sync.Start(ctx); err != nil {
	    return err // the table is not usable
	}
	defer sync.Stop(ctx)

Start blocks until a created table is active. Admins implementing ActiveWaiter wait on
their own, others are polled with DescribeTable.
*/
package lifecycle
