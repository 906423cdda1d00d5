package galleries

import "time"

// Gallery status is advisory metadata: any transition is allowed and
// nothing in the service keys off it.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

const (
	PrivacyPrivate = "private"
	PrivacyPublic  = "public"
)

// Gallery is the document stored under gallery:<adminId>:<galleryId>. It is
// the unit of mutation: every change rewrites the whole document.
type Gallery struct {
	ID               string   `json:"id"`
	AdminID          string   `json:"adminId"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Status           string   `json:"status"`
	Privacy          string   `json:"privacy"`
	DownloadEnabled  bool     `json:"downloadEnabled"`
	FavoritesEnabled bool     `json:"favoritesEnabled"`
	CommentsEnabled  bool     `json:"commentsEnabled"`
	Clients          []string `json:"clients"`
	Photos           []Photo  `json:"photos"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

// Photo is embedded in its gallery document. URL and ThumbnailURL are
// derived per read from the blob store and never persisted.
type Photo struct {
	ID          string   `json:"id"`
	FileName    string   `json:"fileName"`
	StoragePath string   `json:"storagePath"`
	ThumbPath   string   `json:"thumbPath,omitempty"`
	UploadedAt  string   `json:"uploadedAt"`
	Favorites   []string `json:"favorites"`
	Comments    []string `json:"comments"`

	URL          string `json:"url,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// HasClient reports whether the gallery is shared with the given client id.
func (g *Gallery) HasClient(clientID string) bool {
	for _, id := range g.Clients {
		if id == clientID {
			return true
		}
	}
	return false
}

// FindPhoto returns a pointer into g.Photos for the photo with the given id.
func (g *Gallery) FindPhoto(photoID string) *Photo {
	for i := range g.Photos {
		if g.Photos[i].ID == photoID {
			return &g.Photos[i]
		}
	}
	return nil
}

// ToggleFavorite adds clientID to the photo's favorites if absent and
// removes it if present, returning the new membership state.
func (p *Photo) ToggleFavorite(clientID string) bool {
	for i, id := range p.Favorites {
		if id == clientID {
			p.Favorites = append(p.Favorites[:i], p.Favorites[i+1:]...)
			return false
		}
	}
	p.Favorites = append(p.Favorites, clientID)
	return true
}

func Key(adminID, galleryID string) string { return "gallery:" + adminID + ":" + galleryID }
func Prefix(adminID string) string         { return "gallery:" + adminID + ":" }

// Timestamp is the wire format for createdAt/updatedAt/uploadedAt fields,
// matching documents already in the store (RFC 3339 with millisecond
// precision, UTC).
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
