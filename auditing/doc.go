/*
Package auditing stamps creation and modification data on entities before they are saved.

A Handler is a repository BeforeSaveListener:

	auditor := auditing.AuditorFunc(func(ctx context.Context) (string, bool) {
	    return userFromContext(ctx)
	})
	handler, err := auditing.NewHandler[User](auditor)
*/
package auditing
