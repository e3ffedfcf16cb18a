package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	"MuseFM/config"
	"MuseFM/core/auth"
	"MuseFM/model"
	"MuseFM/repository"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*model.User{}, nextID: 1}
}

func (r *fakeUserRepo) CreateUser(user *model.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return 0, repository.ErrDuplicateUser
		}
	}
	id := r.nextID
	r.nextID++
	saved := *user
	saved.ID = id
	if saved.Role == "" {
		saved.Role = model.RoleUser
	}
	r.users[id] = &saved
	return id, nil
}

func (r *fakeUserRepo) GetUserByID(id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateUserRole(userID int64, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("no such user %d", userID)
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) ListUsers() ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// addUser seeds a user directly, bypassing CreateUser.
func (r *fakeUserRepo) addUser(u *model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.users[u.ID] = u
}

// fakeSongRepo is an in-memory SongRepository.
type fakeSongRepo struct {
	mu        sync.Mutex
	songs     map[int64]*model.Song
	nextID    int64
	createErr error
	deleteErr error
}

func newFakeSongRepo() *fakeSongRepo {
	return &fakeSongRepo{songs: map[int64]*model.Song{}, nextID: 1}
}

func (r *fakeSongRepo) CreateSong(song *model.Song) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return 0, r.createErr
	}
	id := r.nextID
	r.nextID++
	saved := *song
	saved.ID = id
	r.songs[id] = &saved
	return id, nil
}

func (r *fakeSongRepo) GetSongByID(id int64) (*model.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.songs[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeSongRepo) ListRecentSongs(limit int) ([]*model.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Song, 0, len(r.songs))
	for _, s := range r.songs {
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSongRepo) ListAllSongs() ([]*model.Song, error) {
	return r.ListRecentSongs(1 << 30)
}

func (r *fakeSongRepo) DeleteSong(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.songs, id)
	return nil
}

// fakePlaylistRepo is an in-memory PlaylistRepository.
type fakePlaylistRepo struct {
	mu        sync.Mutex
	playlists map[int64]*model.Playlist
	entries   []*model.PlaylistSong
	nextID    int64
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{playlists: map[int64]*model.Playlist{}, nextID: 1}
}

func (r *fakePlaylistRepo) CreatePlaylist(playlist *model.Playlist) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	saved := *playlist
	saved.ID = id
	r.playlists[id] = &saved
	return id, nil
}

func (r *fakePlaylistRepo) GetPlaylistByID(id int64) (*model.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.playlists[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r *fakePlaylistRepo) GetPlaylistByIDAndOwner(id, ownerID int64) (*model.Playlist, error) {
	p, _ := r.GetPlaylistByID(id)
	if p == nil || p.CreatedBy != ownerID {
		return nil, nil
	}
	return p, nil
}

func (r *fakePlaylistRepo) ListPlaylistsByOwner(ownerID int64) ([]*model.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Playlist, 0)
	for _, p := range r.playlists {
		if p.CreatedBy == ownerID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakePlaylistRepo) NextPosition(playlistID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := -1
	for _, e := range r.entries {
		if e.PlaylistID == playlistID && e.Position > max {
			max = e.Position
		}
	}
	return max + 1, nil
}

func (r *fakePlaylistRepo) AddSong(ps *model.PlaylistSong) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := *ps
	saved.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, &saved)
	return saved.ID, nil
}

func (r *fakePlaylistRepo) GetPlaylistSongs(playlistID int64) ([]*model.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Song, 0)
	for _, e := range r.entries {
		if e.PlaylistID == playlistID {
			out = append(out, &model.Song{ID: e.SongID})
		}
	}
	return out, nil
}

func (r *fakePlaylistRepo) RemoveSong(playlistID, songID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, e := range r.entries {
		if !(e.PlaylistID == playlistID && e.SongID == songID) {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

// fakeFavoriteRepo is an in-memory FavoriteRepository.
type fakeFavoriteRepo struct {
	mu    sync.Mutex
	pairs map[[2]int64]bool
	songs map[int64]*model.Song
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{pairs: map[[2]int64]bool{}, songs: map[int64]*model.Song{}}
}

func (r *fakeFavoriteRepo) AddFavorite(ctx context.Context, fav *model.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{fav.UserID, fav.SongID}
	if r.pairs[key] {
		return repository.ErrDuplicateFavorite
	}
	r.pairs[key] = true
	return nil
}

func (r *fakeFavoriteRepo) RemoveFavorite(ctx context.Context, userID, songID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pairs, [2]int64{userID, songID})
	return nil
}

func (r *fakeFavoriteRepo) ListFavoriteSongs(ctx context.Context, userID int64) ([]*model.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Song, 0)
	for key := range r.pairs {
		if key[0] == userID {
			if s, ok := r.songs[key[1]]; ok {
				out = append(out, s)
			} else {
				out = append(out, &model.Song{ID: key[1]})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFavoriteRepo) CountForPair(ctx context.Context, userID, songID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pairs[[2]int64{userID, songID}] {
		return 1, nil
	}
	return 0, nil
}

// fakeHistoryRepo is an in-memory HistoryRepository.
type fakeHistoryRepo struct {
	mu        sync.Mutex
	entries   []*model.PlayHistory
	recordErr error
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (r *fakeHistoryRepo) RecordPlay(ctx context.Context, entry *model.PlayHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recordErr != nil {
		return r.recordErr
	}
	saved := *entry
	saved.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, &saved)
	return nil
}

func (r *fakeHistoryRepo) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*model.PlayHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.PlayHistory, 0)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

// fakeObjectStore is an in-memory ObjectStore. Put fails for keys under
// failPrefix to simulate storage outages.
type fakeObjectStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	removed    []string
	failPrefix string
	removeErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (s *fakeObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPrefix != "" && strings.HasPrefix(key, s.failPrefix) {
		return "", errors.New("storage unavailable")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	s.objects[key] = buf.Bytes()
	return "http://objects.local/test-bucket/" + key, nil
}

func (s *fakeObjectStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, key)
	delete(s.objects, key)
	return nil
}

func (s *fakeObjectStore) KeyFromURL(rawURL string) string {
	const marker = "/test-bucket/"
	if idx := strings.Index(rawURL, marker); idx >= 0 {
		return rawURL[idx+len(marker):]
	}
	return rawURL
}

func (s *fakeObjectStore) objectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// testEnv bundles a handler with its fakes.
type testEnv struct {
	handler   *APIHandler
	users     *fakeUserRepo
	songs     *fakeSongRepo
	playlists *fakePlaylistRepo
	favorites *fakeFavoriteRepo
	history   *fakeHistoryRepo
	store     *fakeObjectStore
	cfg       *config.Config
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:     newFakeUserRepo(),
		songs:     newFakeSongRepo(),
		playlists: newFakePlaylistRepo(),
		favorites: newFakeFavoriteRepo(),
		history:   newFakeHistoryRepo(),
		store:     newFakeObjectStore(),
		cfg: &config.Config{
			JWTSecret:     "test-secret",
			JWTTTLHours:   1,
			MaxUploadSize: 16 << 20,
		},
	}
	env.handler = NewAPIHandler(env.users, env.songs, env.playlists, env.favorites, env.history, env.store, env.cfg)
	return env
}

// seedUser registers a user in the fake repo and returns it.
func (env *testEnv) seedUser(id int64, username, role string) *model.User {
	u := &model.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	env.users.addUser(u)
	return u
}

// asUser injects session claims for the user, as AuthMiddleware would.
func asUser(r *http.Request, u *model.User) *http.Request {
	claims := &auth.Claims{UserID: u.ID, Username: u.Username, Role: u.Role}
	ctx := context.WithValue(r.Context(), claimsContextKey, claims)
	return r.WithContext(ctx)
}
