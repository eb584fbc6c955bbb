package testmodels

import (
	"time"

	"github.com/suparena/dynarepo/mapping"
)

// User is keyed by a hash key only.
type User struct {

	// Unique identifier of the user, generated on save when empty.
	ID string `dynamodbav:"Id"`

	// Name of the user.
	Name string `dynamodbav:"Name"`

	// Postal code, used by the query tests.
	PostCode string `dynamodbav:"PostCode,omitempty"`

	// Number of playlists owned by the user.
	NumberOfPlaylists int64 `dynamodbav:"NumberOfPlaylists"`

	// Date the user left, stored as epoch seconds.
	LeaveDate time.Time `dynamodbav:"LeaveDate"`

	CreatedBy      string    `dynamodbav:"CreatedBy,omitempty"`
	CreatedAt      time.Time `dynamodbav:"CreatedAt"`
	LastModifiedBy string    `dynamodbav:"LastModifiedBy,omitempty"`
	LastModifiedAt time.Time `dynamodbav:"LastModifiedAt"`
}

func (u *User) SetCreatedBy(auditor string) { u.CreatedBy = auditor }
func (u *User) SetCreatedAt(at time.Time) { u.CreatedAt = at }
func (u *User) SetLastModifiedBy(auditor string) { u.LastModifiedBy = auditor }
func (u *User) SetLastModifiedAt(at time.Time) { u.LastModifiedAt = at }
func (u *User) IsNew() bool { return u.CreatedAt.IsZero() }

// UserSchema declares User with an "id" attribute and an epoch encoded leave date.
func UserSchema() *mapping.Schema[User] {
	return mapping.NewSchema[User]("Users",
		mapping.HashKey("Id", func(u User) string { return u.ID }).
			WithAttributeName("id").
			WithGeneratedKey(func(u *User, key string) { u.ID = key }),
		mapping.Attribute("Name", func(u User) string { return u.Name }),
		mapping.Attribute("PostCode", func(u User) string { return u.PostCode }),
		mapping.Attribute("NumberOfPlaylists", func(u User) int64 { return u.NumberOfPlaylists }),
		mapping.Attribute("LeaveDate", func(u User) time.Time { return u.LeaveDate }).
			WithMarshaller(mapping.EpochMarshaller{}),
	)
}

// PlaylistID is the composite identifier of a Playlist.
type PlaylistID struct {
	UserName     string
	PlaylistName string
}

func (id PlaylistID) HashKey() any  { return id.UserName }
func (id PlaylistID) RangeKey() any { return id.PlaylistName }

// Playlist is keyed by user name and playlist name.
type Playlist struct {

	// Owner of the playlist.
	UserName string `dynamodbav:"UserName"`

	// Name of the playlist, unique per user.
	PlaylistName string `dynamodbav:"PlaylistName"`

	// Display name shown to listeners.
	DisplayName string `dynamodbav:"DisplayName,omitempty"`
}

// NewPlaylist returns a playlist identified by id.
func NewPlaylist(id PlaylistID) Playlist {
	return Playlist{UserName: id.UserName, PlaylistName: id.PlaylistName}
}

func (p Playlist) ID() PlaylistID {
	return PlaylistID{UserName: p.UserName, PlaylistName: p.PlaylistName}
}

// PlaylistSchema declares Playlist with a composite identifier.
func PlaylistSchema() *mapping.Schema[Playlist] {
	return mapping.NewSchema[Playlist]("Playlists",
		mapping.HashKey("UserName", func(p Playlist) string { return p.UserName }).
			WithAttributeName("userName"),
		mapping.RangeKey("PlaylistName", func(p Playlist) string { return p.PlaylistName }).
			WithAttributeName("playlistName"),
		mapping.ID("ID", func(p Playlist) PlaylistID { return p.ID() }),
		mapping.Attribute("DisplayName", func(p Playlist) string { return p.DisplayName }),
	)
}
