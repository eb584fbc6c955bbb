/*
Package registry caches entity metadata per Go type.

Schemas are registered during initialization and resolved once, on first use:

	func init() {
	    registry.Register(testmodels.UserSchema())
	}

	md, err := registry.Metadata[testmodels.User]()

Resolution errors are cached along with successful results, so a broken declaration
fails the same way on every access. The registry is safe for concurrent readers.
*/
package registry
