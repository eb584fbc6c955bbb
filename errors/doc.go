/*
Package errors provides semantic error types for the dynarepo library.

Every failure the repository layer reports is identifiable with the standard
errors.Is() function or one of the IsXxx helpers. Nothing in the library logs
an error and carries on.

Common Errors:

	var (
	    ErrNotFound            = errors.New("entity not found")
	    ErrAlreadyExists       = errors.New("entity already exists")
	    ErrInvalidInput        = errors.New("invalid input")
	    ErrConfiguration       = errors.New("invalid configuration")
	    ErrIncorrectResultSize = errors.New("incorrect result size")
	    ErrEmptyResult         = errors.New("empty result")
	    ErrBatchWrite          = errors.New("batch write failed")
	    ErrScanDisabled        = errors.New("scan disabled")
	)

Usage:

	err := repo.DeleteByID(ctx, "4711")
	if errors.IsEmptyResult(err) {
	    // nothing stored under that id
	}

	var bwe *errors.BatchWriteError
	if stderrors.As(err, &bwe) {
	    for _, cause := range bwe.Causes {
	        // inspect each failed batch
	    }
	}

EmptyResultError also matches ErrIncorrectResultSize, so callers interested in
any cardinality problem only need a single check.
*/
package errors
