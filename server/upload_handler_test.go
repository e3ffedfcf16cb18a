package server

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MuseFM/model"
)

type uploadForm struct {
	title, artist, album string
	audioName            string
	coverName            string
}

func buildUploadRequest(t *testing.T, form uploadForm) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if form.title != "" {
		require.NoError(t, w.WriteField("title", form.title))
	}
	if form.artist != "" {
		require.NoError(t, w.WriteField("artist", form.artist))
	}
	if form.album != "" {
		require.NoError(t, w.WriteField("album", form.album))
	}
	if form.audioName != "" {
		fw, err := w.CreateFormFile("audioFile", form.audioName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake audio bytes"))
		require.NoError(t, err)
	}
	if form.coverName != "" {
		fw, err := w.CreateFormFile("coverArt", form.coverName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadSong(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(1, "alice", model.RoleUser)

	req := asUser(buildUploadRequest(t, uploadForm{
		title:     "Blue Train",
		artist:    "John Coltrane",
		album:     "Blue Train",
		audioName: "blue train.mp3",
		coverName: "cover.jpg",
	}), user)
	rec := httptest.NewRecorder()
	env.handler.UploadSongHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	song := body["song"].(map[string]interface{})
	assert.Equal(t, "Blue Train", song["title"])
	assert.Contains(t, song["filePath"], "/audio/")
	assert.Contains(t, song["coverArtPath"], "/covers/")
	assert.NotContains(t, song["filePath"], " ", "object keys must be sanitized")

	assert.Equal(t, 2, env.store.objectCount())
	stored, err := env.songs.GetSongByID(1)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, user.ID, stored.UploadedBy)
}

func TestUploadRejectsMissingTitleOrAudio(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(1, "alice", model.RoleUser)

	// No audio file.
	req := asUser(buildUploadRequest(t, uploadForm{title: "No Audio"}), user)
	rec := httptest.NewRecorder()
	env.handler.UploadSongHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No title.
	req = asUser(buildUploadRequest(t, uploadForm{audioName: "track.mp3"}), user)
	rec = httptest.NewRecorder()
	env.handler.UploadSongHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing stored on either failure.
	assert.Equal(t, 0, env.store.objectCount())
	songs, err := env.songs.ListAllSongs()
	require.NoError(t, err)
	assert.Empty(t, songs)
}

func TestUploadAudioFailureAborts(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(1, "alice", model.RoleUser)
	env.store.failPrefix = "audio/"

	req := asUser(buildUploadRequest(t, uploadForm{
		title:     "Doomed",
		audioName: "track.mp3",
		coverName: "cover.jpg",
	}), user)
	rec := httptest.NewRecorder()
	env.handler.UploadSongHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 0, env.store.objectCount())
	songs, err := env.songs.ListAllSongs()
	require.NoError(t, err)
	assert.Empty(t, songs)
}

// A failed cover upload must not sink the song; it is saved without a cover.
func TestUploadCoverFailureIsSwallowed(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(1, "alice", model.RoleUser)
	env.store.failPrefix = "covers/"

	req := asUser(buildUploadRequest(t, uploadForm{
		title:     "Coverless",
		audioName: "track.mp3",
		coverName: "cover.jpg",
	}), user)
	rec := httptest.NewRecorder()
	env.handler.UploadSongHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := env.songs.GetSongByID(1)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.FilePath)
	assert.Empty(t, stored.CoverArtPath)
}

// When the metadata insert fails the already-stored blobs stay behind; there
// is no compensating delete.
func TestUploadInsertFailureLeavesBlobs(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(1, "alice", model.RoleUser)
	env.songs.createErr = errors.New("db down")

	req := asUser(buildUploadRequest(t, uploadForm{
		title:     "Orphaned",
		audioName: "track.mp3",
		coverName: "cover.jpg",
	}), user)
	rec := httptest.NewRecorder()
	env.handler.UploadSongHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 2, env.store.objectCount())
	assert.Empty(t, env.store.removed)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "blue_train.mp3", sanitizeFilename("blue train.mp3"))
	assert.Equal(t, "a_b_c.mp3", sanitizeFilename("a/b\\c.mp3"))
	assert.Equal(t, "upload", sanitizeFilename(""))
}
