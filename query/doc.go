/*
Package query represents single reads against a DataStore.

A Query yields either a lazy ResultList or exactly one result. SingleResult re-runs the
query on every call and reports more than one result as an IncorrectResultSizeError:

	q, err := query.NewCreator(info, store).CreateQuery(
	    query.NewPredicate(query.Where("UserName", query.OpEQ, "dave")), false)
	playlist, err := q.SingleResult(ctx)

Creator picks the cheapest access path for a Predicate. Equality on the full key loads the
item, equality on the hash key runs a key condition query and everything else scans. Scans
must be enabled explicitly.
*/
package query
