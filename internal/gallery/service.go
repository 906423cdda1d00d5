package gallery

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gallery-app/internal/blobstore"
	"gallery-app/internal/domain/accounts"
	"gallery-app/internal/domain/galleries"
	"gallery-app/internal/kvstore"
	"gallery-app/internal/media"
)

// Service performs every gallery, photo and profile operation on behalf of
// an authenticated caller. The caller id always comes from a resolved
// token, never from request payloads; ownership is enforced through the
// document key scheme (gallery:<adminId>:<galleryId>), so a caller can only
// ever address documents in their own namespace.
type Service struct {
	kv     kvstore.Store
	blobs  blobstore.Store
	urlTTL time.Duration

	// Gallery documents are whole-document read-modify-write, so concurrent
	// writers to the same gallery are serialized per key within the process.
	locks keyedMutex
}

func NewService(kv kvstore.Store, blobs blobstore.Store, urlTTL time.Duration) *Service {
	return &Service{kv: kv, blobs: blobs, urlTTL: urlTTL}
}

// ---- profiles ----

// RegisterAdminProfile stores the admin:<id> document for a freshly created
// admin account.
func (s *Service) RegisterAdminProfile(u *accounts.User, businessName string) (*accounts.AdminProfile, error) {
	profile := accounts.AdminProfile{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		BusinessName: businessName,
		CreatedAt:    galleries.Timestamp(time.Now()),
	}
	if err := s.kv.Set(accounts.AdminKey(u.ID), profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// RegisterClientProfile stores the client:<id> document for a client account
// created by callerID.
func (s *Service) RegisterClientProfile(u *accounts.User, callerID string, galleryIDs []string) (*accounts.ClientProfile, error) {
	if galleryIDs == nil {
		galleryIDs = []string{}
	}
	profile := accounts.ClientProfile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AdminID:   callerID,
		Galleries: galleryIDs,
		CreatedAt: galleries.Timestamp(time.Now()),
	}
	if err := s.kv.Set(accounts.ClientKey(u.ID), profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListClients returns the client profiles created by callerID.
func (s *Service) ListClients(callerID string) ([]accounts.ClientProfile, error) {
	docs, err := s.kv.ScanPrefix(accounts.ClientPrefix)
	if err != nil {
		return nil, err
	}
	clients := make([]accounts.ClientProfile, 0)
	for _, doc := range docs {
		var c accounts.ClientProfile
		if err := json.Unmarshal(doc, &c); err != nil {
			return nil, fmt.Errorf("decode client profile: %w", err)
		}
		if c.AdminID == callerID {
			clients = append(clients, c)
		}
	}
	return clients, nil
}

// ---- admin gallery operations ----

type CreateGalleryInput struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Status           string   `json:"status"`
	Privacy          string   `json:"privacy"`
	DownloadEnabled  bool     `json:"downloadEnabled"`
	FavoritesEnabled bool     `json:"favoritesEnabled"`
	CommentsEnabled  bool     `json:"commentsEnabled"`
	Clients          []string `json:"clients"`
}

// CreateGallery persists a new empty gallery owned by callerID.
func (s *Service) CreateGallery(callerID string, in CreateGalleryInput) (*galleries.Gallery, error) {
	now := time.Now()
	if in.Status == "" {
		in.Status = galleries.StatusDraft
	}
	if in.Privacy == "" {
		in.Privacy = galleries.PrivacyPrivate
	}
	if in.Clients == nil {
		in.Clients = []string{}
	}

	g := galleries.Gallery{
		ID:               fmt.Sprintf("gallery-%d-%s", now.UnixMilli(), randToken(9)),
		AdminID:          callerID,
		Name:             in.Name,
		Description:      in.Description,
		Status:           in.Status,
		Privacy:          in.Privacy,
		DownloadEnabled:  in.DownloadEnabled,
		FavoritesEnabled: in.FavoritesEnabled,
		CommentsEnabled:  in.CommentsEnabled,
		Clients:          in.Clients,
		Photos:           []galleries.Photo{},
		CreatedAt:        galleries.Timestamp(now),
		UpdatedAt:        galleries.Timestamp(now),
	}
	if err := s.kv.Set(galleries.Key(callerID, g.ID), g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGalleries returns every gallery owned by callerID, regardless of
// status or privacy.
func (s *Service) ListGalleries(callerID string) ([]galleries.Gallery, error) {
	docs, err := s.kv.ScanPrefix(galleries.Prefix(callerID))
	if err != nil {
		return nil, err
	}
	out := make([]galleries.Gallery, 0, len(docs))
	for _, doc := range docs {
		var g galleries.Gallery
		if err := json.Unmarshal(doc, &g); err != nil {
			return nil, fmt.Errorf("decode gallery: %w", err)
		}
		out = append(out, g)
	}
	return out, nil
}

// GalleryPatch carries the fields an update may change. Nil pointers mean
// "leave as is"; the merge is shallow and whole-field.
type GalleryPatch struct {
	Name             *string   `json:"name"`
	Description      *string   `json:"description"`
	Status           *string   `json:"status"`
	Privacy          *string   `json:"privacy"`
	DownloadEnabled  *bool     `json:"downloadEnabled"`
	FavoritesEnabled *bool     `json:"favoritesEnabled"`
	CommentsEnabled  *bool     `json:"commentsEnabled"`
	Clients          *[]string `json:"clients"`
}

// UpdateGallery merges patch over the stored gallery and refreshes
// updatedAt. Missing gallery (including one owned by someone else) is
// ErrNotFound.
func (s *Service) UpdateGallery(callerID, galleryID string, patch GalleryPatch) (*galleries.Gallery, error) {
	key := galleries.Key(callerID, galleryID)
	unlock := s.locks.lock(key)
	defer unlock()

	g, err := s.loadGallery(key)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.Description != nil {
		g.Description = *patch.Description
	}
	if patch.Status != nil {
		g.Status = *patch.Status
	}
	if patch.Privacy != nil {
		g.Privacy = *patch.Privacy
	}
	if patch.DownloadEnabled != nil {
		g.DownloadEnabled = *patch.DownloadEnabled
	}
	if patch.FavoritesEnabled != nil {
		g.FavoritesEnabled = *patch.FavoritesEnabled
	}
	if patch.CommentsEnabled != nil {
		g.CommentsEnabled = *patch.CommentsEnabled
	}
	if patch.Clients != nil {
		g.Clients = *patch.Clients
	}
	g.UpdatedAt = galleries.Timestamp(time.Now())

	if err := s.kv.Set(key, g); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGallery removes the gallery document and its blobs. Blob removal is
// best effort: partial failures are logged and the document is deleted
// anyway — an orphaned blob is preferable to an undeletable gallery.
func (s *Service) DeleteGallery(ctx context.Context, callerID, galleryID string) error {
	key := galleries.Key(callerID, galleryID)
	unlock := s.locks.lock(key)
	defer unlock()

	g, err := s.loadGallery(key)
	if err != nil {
		return err
	}

	if len(g.Photos) > 0 {
		keys := make([]string, 0, len(g.Photos)*2)
		for _, p := range g.Photos {
			keys = append(keys, p.StoragePath)
			if p.ThumbPath != "" {
				keys = append(keys, p.ThumbPath)
			}
		}
		for _, rmErr := range s.blobs.Remove(ctx, keys) {
			log.Printf("WARN delete gallery %s: %v", galleryID, rmErr)
		}
	}

	return s.kv.Delete(key)
}

// UploadPhoto stores the file bytes in the blob store and appends a photo
// record to the gallery. A thumbnail is generated for decodable images;
// thumbnail failure never fails the upload.
func (s *Service) UploadPhoto(ctx context.Context, callerID, galleryID, fileName string, data []byte, contentType string) (*galleries.Photo, error) {
	key := galleries.Key(callerID, galleryID)

	if _, err := s.loadGallery(key); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no file provided", ErrValidation)
	}

	now := time.Now()
	storagePath := fmt.Sprintf("%s/%s/%d-%s.%s", callerID, galleryID, now.UnixMilli(), randToken(9), fileExt(fileName))
	if err := s.blobs.Put(ctx, storagePath, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	thumbPath := ""
	if thumb, err := media.Thumbnail(bytes.NewReader(data), media.ThumbnailMaxEdge); err == nil {
		tp := "thumbs/" + storagePath + ".jpg"
		if err := s.blobs.Put(ctx, tp, bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg"); err != nil {
			log.Printf("WARN store thumbnail for %s: %v", storagePath, err)
		} else {
			thumbPath = tp
		}
	}

	photo := galleries.Photo{
		ID:          fmt.Sprintf("photo-%d-%s", now.UnixMilli(), randToken(9)),
		FileName:    fileName,
		StoragePath: storagePath,
		ThumbPath:   thumbPath,
		UploadedAt:  galleries.Timestamp(now),
		Favorites:   []string{},
		Comments:    []string{},
	}

	// Re-read under the lock: another upload may have appended since the
	// ownership check above.
	unlock := s.locks.lock(key)
	defer unlock()

	g, err := s.loadGallery(key)
	if err != nil {
		return nil, err
	}
	g.Photos = append(g.Photos, photo)
	g.UpdatedAt = galleries.Timestamp(time.Now())
	if err := s.kv.Set(key, g); err != nil {
		return nil, err
	}
	return &photo, nil
}

// ---- client operations ----

// ListClientGalleries returns the galleries shared with the calling client,
// every photo enriched with transient signed URLs.
func (s *Service) ListClientGalleries(ctx context.Context, callerID string) ([]galleries.Gallery, error) {
	client, err := s.loadClient(callerID)
	if err != nil {
		return nil, err
	}

	docs, err := s.kv.ScanPrefix(galleries.Prefix(client.AdminID))
	if err != nil {
		return nil, err
	}

	shared := make([]galleries.Gallery, 0)
	for _, doc := range docs {
		var g galleries.Gallery
		if err := json.Unmarshal(doc, &g); err != nil {
			return nil, fmt.Errorf("decode gallery: %w", err)
		}
		if !g.HasClient(callerID) {
			continue
		}
		for i := range g.Photos {
			p := &g.Photos[i]
			url, err := s.blobs.SignedURL(ctx, p.StoragePath, s.urlTTL)
			if err != nil {
				log.Printf("WARN sign url for %s: %v", p.StoragePath, err)
				continue
			}
			p.URL = url
			if p.ThumbPath != "" {
				if turl, err := s.blobs.SignedURL(ctx, p.ThumbPath, s.urlTTL); err == nil {
					p.ThumbnailURL = turl
				}
			}
		}
		shared = append(shared, g)
	}
	return shared, nil
}

// ToggleFavorite flips callerID's membership in the photo's favorites set
// and reports the new state.
func (s *Service) ToggleFavorite(callerID, galleryID, photoID string) (bool, error) {
	client, err := s.loadClient(callerID)
	if err != nil {
		return false, err
	}

	key := galleries.Key(client.AdminID, galleryID)
	unlock := s.locks.lock(key)
	defer unlock()

	g, err := s.loadGallery(key)
	if err != nil {
		return false, err
	}
	photo := g.FindPhoto(photoID)
	if photo == nil {
		return false, fmt.Errorf("%w: photo", ErrNotFound)
	}

	isFavorite := photo.ToggleFavorite(callerID)
	if err := s.kv.Set(key, g); err != nil {
		return false, err
	}
	return isFavorite, nil
}

// ---- helpers ----

func (s *Service) loadGallery(key string) (*galleries.Gallery, error) {
	doc, err := s.kv.Get(key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: gallery", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var g galleries.Gallery
	if err := json.Unmarshal(doc, &g); err != nil {
		return nil, fmt.Errorf("decode gallery: %w", err)
	}
	return &g, nil
}

func (s *Service) loadClient(clientID string) (*accounts.ClientProfile, error) {
	doc, err := s.kv.Get(accounts.ClientKey(clientID))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: client", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var c accounts.ClientProfile
	if err := json.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("decode client profile: %w", err)
	}
	return &c, nil
}

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// randToken returns n characters of lowercase base36, enough entropy to
// make id and storage-key collisions negligible even for uploads landing
// in the same millisecond.
func randToken(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	var sb strings.Builder
	for _, c := range b {
		sb.WriteByte(tokenAlphabet[int(c)%len(tokenAlphabet)])
	}
	return sb.String()
}

func fileExt(fileName string) string {
	if i := strings.LastIndexByte(fileName, '.'); i >= 0 && i < len(fileName)-1 {
		return fileName[i+1:]
	}
	return "bin"
}
