/*
Package repository provides CRUD and paging repositories over a DataStore, and the
execution of derived query methods.

Repositories are composed explicitly from their collaborators:

	repo, err := repository.NewRepository(repository.CapabilityPagingAndSorting,
	    repository.Config[Playlist, PlaylistID]{
	        Store:       store,
	        Information: info,
	        Listeners:   []repository.BeforeSaveListener[Playlist]{auditor},
	    })

A QueryMethod declares a derived query. Its predicate function stands in for the parsed
method name and its Kind and Returns select the execution:

	findByUser, err := repo.QueryMethod(repository.QueryMethod{
	    Name:      "findByUserName",
	    Returns:   repository.ReturnsPage,
	    Predicate: func(args []any) (*query.Predicate, error) {
	        return query.NewPredicate(query.Where("UserName", query.OpEQ, args[0])), nil
	    },
	})
	out, err := findByUser.Execute(ctx, "dave", storagemodels.PageRequest(0, 20))

Paged results read the page and the total with two separate store round trips. Writes
in between can make the total disagree with the content.

Operations that can only be answered by a table scan fail with a ScanDisabledError
unless the matching ScanPermissions flag is set.
*/
package repository
