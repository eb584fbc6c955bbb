/*
Package mapping declares how entity types map onto hash-key or hash+range-key tables.

Entities are described once with an explicit schema instead of struct tag scanning:

	var playlistSchema = mapping.NewSchema[Playlist]("playlists",
	    mapping.HashKey("UserName", func(p Playlist) string { return p.UserName }).
	        WithAttributeName("userName"),
	    mapping.RangeKey("PlaylistName", func(p Playlist) string { return p.PlaylistName }),
	    mapping.ID("ID", func(p Playlist) PlaylistID { return p.ID() }),
	    mapping.Attribute("CreatedAt", func(p Playlist) time.Time { return p.CreatedAt }).
	        WithMarshaller(mapping.ISODateTimeMarshaller{}),
	)

	md, err := playlistSchema.Build()

Property names are the attribute names the attributevalue encoder produces for the
struct, normally the Go field names. Composite id properties are derived values and
are never stored.
*/
package mapping
