/*
Package entityinfo translates between entity identifiers and store keys.

Hash-only entities use their hash key value as identifier. Entities with a range key
use a composite identifier implementing mapping.HashAndRangeKey:

	info, err := entityinfo.New[Playlist, PlaylistID](md)
	key, err := info.Key(PlaylistID{UserName: "dave", PlaylistName: "jazz"})

Metadata lookups behave the same for both layouts.
*/
package entityinfo
