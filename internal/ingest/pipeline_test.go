package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Reainz/Snapflow-sub000/internal/models"
	"github.com/Reainz/Snapflow-sub000/internal/quota"
	"github.com/Reainz/Snapflow-sub000/internal/storage"
	"github.com/Reainz/Snapflow-sub000/internal/transcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeObjects struct {
	mu      sync.Mutex
	deleted []string
	objects map[string]bool
	meta    map[string]*storage.ObjectMetadata
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string]bool), meta: make(map[string]*storage.ObjectMetadata)}
}

func (f *fakeObjects) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, path)
	delete(f.objects, path)
	return nil
}

func (f *fakeObjects) Exists(ctx context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[path], nil
}

func (f *fakeObjects) Metadata(ctx context.Context, path string) (*storage.ObjectMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.meta[path]; ok {
		return m, nil
	}
	return nil, errors.New("metadata not found")
}

func (f *fakeObjects) TokenURL(path, token string) string {
	return "https://cdn.test/" + path + "?token=" + token
}

func (f *fakeObjects) SignedURL(path string) (string, error) {
	return "https://cdn.test/" + path + "?signature=test", nil
}

func (f *fakeObjects) Bucket() string { return "test-bucket" }

func (f *fakeObjects) deletedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type fakeTranscoder struct {
	calls   int
	outcome func(call int) (*transcode.Result, error)
	lastReq transcode.Request
}

func (f *fakeTranscoder) Transcode(ctx context.Context, r transcode.Request) (*transcode.Result, error) {
	f.calls++
	f.lastReq = r
	return f.outcome(f.calls)
}

func okResult() *transcode.Result {
	return &transcode.Result{
		PlaybackURL:     "https://stream.test/abc/master.m3u8",
		ThumbnailURL:    "https://stream.test/abc/thumb.jpg",
		DurationSeconds: 42.5,
		AssetID:         "prov-abc",
	}
}

type memAssets struct {
	mu   sync.Mutex
	recs map[string]*models.VideoAsset
}

func newMemAssets() *memAssets {
	return &memAssets{recs: make(map[string]*models.VideoAsset)}
}

func (s *memAssets) Get(ctx context.Context, id string) (*models.VideoAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memAssets) Save(ctx context.Context, asset *models.VideoAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *asset
	s.recs[asset.ID] = &cp
	return nil
}

func (s *memAssets) get(id string) *models.VideoAsset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recs[id]
}

type fakeNotifier struct {
	mu     sync.Mutex
	ready  []string
	failed []string
}

func (f *fakeNotifier) VideoReady(ctx context.Context, a *models.VideoAsset) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = append(f.ready, a.ID)
}

func (f *fakeNotifier) VideoFailed(ctx context.Context, a *models.VideoAsset) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, a.ID)
}

type alertRec struct {
	userID, resourceID, action string
	retryAfter                 int
}

type fakeAlerts struct {
	mu   sync.Mutex
	recs []alertRec
}

func (f *fakeAlerts) RateLimitViolation(ctx context.Context, userID, resourceID, action string, retryAfter int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, alertRec{userID, resourceID, action, retryAfter})
}

// quotaStoreAt builds a quota store where the user already consumed n uploads
// in the window containing at
func quotaStoreAt(userID string, n int, at time.Time) quota.Store {
	store := &stubQuotaStore{recs: map[string]*models.QuotaRecord{}}
	if n > 0 {
		store.recs[userID] = &models.QuotaRecord{
			UserID: userID,
			Actions: models.ActionUsageMap{
				quota.ActionUpload: {
					Count:   n,
					Bucket:  quota.BucketKey(at, quota.WindowHourly),
					ResetAt: quota.ResetTime(at, quota.WindowHourly).UnixMilli(),
				},
			},
		}
	}
	return store
}

type stubQuotaStore struct {
	mu   sync.Mutex
	recs map[string]*models.QuotaRecord
}

func (s *stubQuotaStore) Mutate(ctx context.Context, userID string, fn func(rec *models.QuotaRecord) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[userID]
	if !ok {
		rec = &models.QuotaRecord{UserID: userID, Actions: models.ActionUsageMap{}}
	}
	commit, err := fn(rec)
	if err != nil {
		return err
	}
	if commit {
		s.recs[userID] = rec
	}
	return nil
}

func (s *stubQuotaStore) uploads(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[userID]
	if !ok {
		return 0
	}
	return rec.Actions[quota.ActionUpload].Count
}

// ---- harness ----

type pipelineFixture struct {
	pipeline   *Pipeline
	objects    *fakeObjects
	transcoder *fakeTranscoder
	assets     *memAssets
	notifier   *fakeNotifier
	alerts     *fakeAlerts
	quotaStore quota.Store
	slept      []time.Duration
}

func newFixture(t *testing.T, at time.Time, quotaStore quota.Store) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		objects:    newFakeObjects(),
		transcoder: &fakeTranscoder{outcome: func(int) (*transcode.Result, error) { return okResult(), nil }},
		assets:     newMemAssets(),
		notifier:   &fakeNotifier{},
		alerts:     &fakeAlerts{},
		quotaStore: quotaStore,
	}
	limiter := quota.NewLimiter(quotaStore, 40*24*time.Hour)
	limiter.Now = func() time.Time { return at }
	f.pipeline = NewPipeline(limiter, f.objects, f.transcoder, f.assets, f.notifier, f.alerts)
	f.pipeline.Now = func() time.Time { return at }
	f.pipeline.Sleep = func(d time.Duration) { f.slept = append(f.slept, d) }
	return f
}

func rawEvent() StorageObjectEvent {
	return StorageObjectEvent{
		Bucket:      "test-bucket",
		Path:        "raw-videos/user-1/vid-1.mp4",
		ContentType: "video/mp4",
		Size:        1 << 20,
		Metadata:    map[string]string{"privacy": "public"},
	}
}

// ---- tests ----

func TestParseRawVideoPath(t *testing.T) {
	userID, assetID, ok := ParseRawVideoPath("raw-videos/user-1/vid-9.mp4")
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "vid-9", assetID)

	for _, p := range []string{
		"raw-videos/user-1/vid-9",   // no extension
		"avatars/user-1/pic.jpg",    // wrong prefix
		"raw-videos/user-1/a/b.mp4", // extra segment
		"raw-videos/vid-9.mp4",      // missing user segment
	} {
		_, _, ok := ParseRawVideoPath(p)
		assert.False(t, ok, p)
	}
}

func TestFinalizeIgnoresNonVideoEvents(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	f := newFixture(t, at, quotaStoreAt("user-1", 0, at))

	evt := rawEvent()
	evt.ContentType = "image/png"
	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), evt))

	assert.Zero(t, f.transcoder.calls)
	assert.Nil(t, f.assets.get("vid-1"))

	evt = rawEvent()
	evt.Path = "exports/user-1/vid-1.mp4"
	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), evt))
	assert.Zero(t, f.transcoder.calls)
}

func TestFinalizeIgnoresSettledAsset(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	store := quotaStoreAt("user-1", 0, at)
	f := newFixture(t, at, store)
	f.assets.Save(context.Background(), &models.VideoAsset{
		ID:      "vid-1",
		OwnerID: "user-1",
		Status:  models.VideoStatusReady,
	})

	// A re-fired finalize event must not reopen a settled asset
	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), rawEvent()))

	assert.Equal(t, models.VideoStatusReady, f.assets.get("vid-1").Status)
	assert.Zero(t, f.transcoder.calls)
	assert.Equal(t, 0, store.(*stubQuotaStore).uploads("user-1"))
}

func TestFinalizeQuotaDenied(t *testing.T) {
	// 14:30:00 -> 1800s to reset, rendered in minutes
	at := time.Date(2024, 3, 7, 14, 30, 0, 0, time.UTC)
	f := newFixture(t, at, quotaStoreAt("user-1", 5, at))

	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), rawEvent()))

	asset := f.assets.get("vid-1")
	require.NotNil(t, asset)
	assert.Equal(t, models.VideoStatusFailed, asset.Status)
	assert.Equal(t, CodeRateLimitExceeded, asset.ErrorCode)
	assert.Equal(t, "Upload limit reached. Please try again in 30 minutes.", asset.Error)
	assert.NotNil(t, asset.LastErrorAt)

	// Raw object reclaimed, no transcode attempted, alert appended
	assert.Equal(t, []string{"raw-videos/user-1/vid-1.mp4"}, f.objects.deletedPaths())
	assert.Zero(t, f.transcoder.calls)
	require.Len(t, f.alerts.recs, 1)
	assert.Equal(t, alertRec{"user-1", "vid-1", quota.ActionUpload, 1800}, f.alerts.recs[0])
}

func TestFinalizeQuotaDeniedSecondsRendering(t *testing.T) {
	// Exactly 60 seconds to reset renders as seconds, not minutes
	at := time.Date(2024, 3, 7, 14, 59, 0, 0, time.UTC)
	f := newFixture(t, at, quotaStoreAt("user-1", 5, at))

	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), rawEvent()))

	asset := f.assets.get("vid-1")
	require.NotNil(t, asset)
	assert.Equal(t, "Upload limit reached. Please try again in 60 seconds.", asset.Error)

	// 45 seconds remaining
	at = time.Date(2024, 3, 7, 14, 59, 15, 0, time.UTC)
	f = newFixture(t, at, quotaStoreAt("user-2", 5, at))
	evt := rawEvent()
	evt.Path = "raw-videos/user-2/vid-2.mp4"
	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), evt))
	assert.Equal(t, "Upload limit reached. Please try again in 45 seconds.", f.assets.get("vid-2").Error)

	// 61 seconds rounds up to 2 minutes
	at = time.Date(2024, 3, 7, 14, 58, 59, 0, time.UTC)
	f = newFixture(t, at, quotaStoreAt("user-3", 5, at))
	evt = rawEvent()
	evt.Path = "raw-videos/user-3/vid-3.mp4"
	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), evt))
	assert.Equal(t, "Upload limit reached. Please try again in 2 minutes.", f.assets.get("vid-3").Error)
}

func TestFinalizeSuccess(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	store := quotaStoreAt("user-1", 0, at)
	f := newFixture(t, at, store)

	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), rawEvent()))

	asset := f.assets.get("vid-1")
	require.NotNil(t, asset)
	assert.Equal(t, models.VideoStatusReady, asset.Status)
	assert.Equal(t, "https://stream.test/abc/master.m3u8", asset.HLSURL)
	assert.Equal(t, "https://stream.test/abc/thumb.jpg", asset.ThumbnailURL)
	assert.Equal(t, 42.5, asset.DurationSeconds)
	assert.Equal(t, "prov-abc", asset.AssetProviderID)
	assert.Equal(t, "hls", asset.DeliveryMode)
	assert.Empty(t, asset.Error)
	assert.Empty(t, asset.ErrorCode)
	assert.Nil(t, asset.LastErrorAt)
	assert.Equal(t, 1, asset.Attempts)
	assert.Equal(t, "raw-videos/user-1/vid-1.mp4", asset.RawPath)
	assert.Equal(t, "test-bucket", asset.RawBucket)

	// Upload quota consumed exactly once
	assert.Equal(t, 1, store.(*stubQuotaStore).uploads("user-1"))

	// Raw object cleaned up, owner notified
	assert.Equal(t, []string{"raw-videos/user-1/vid-1.mp4"}, f.objects.deletedPaths())
	assert.Equal(t, []string{"vid-1"}, f.notifier.ready)
	assert.Empty(t, f.notifier.failed)
}

func TestSourceURLPrefersEventToken(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	f := newFixture(t, at, quotaStoreAt("user-1", 0, at))

	evt := rawEvent()
	evt.Metadata["download_token"] = "tok-123"
	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), evt))

	assert.Equal(t, "https://cdn.test/raw-videos/user-1/vid-1.mp4?token=tok-123", f.transcoder.lastReq.SourceURL)
}

func TestSourceURLFallsBackToMetadataThenSigned(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	f := newFixture(t, at, quotaStoreAt("user-1", 0, at))
	f.objects.meta["raw-videos/user-1/vid-1.mp4"] = &storage.ObjectMetadata{DownloadToken: "meta-tok"}

	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), rawEvent()))
	assert.Equal(t, "https://cdn.test/raw-videos/user-1/vid-1.mp4?token=meta-tok", f.transcoder.lastReq.SourceURL)

	// No token anywhere: signed URL
	f2 := newFixture(t, at, quotaStoreAt("user-2", 0, at))
	evt := rawEvent()
	evt.Path = "raw-videos/user-2/vid-2.mp4"
	require.NoError(t, f2.pipeline.HandleFinalize(context.Background(), evt))
	assert.Equal(t, "https://cdn.test/raw-videos/user-2/vid-2.mp4?signature=test", f2.transcoder.lastReq.SourceURL)
}

func TestTerminalFailureStopsImmediately(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	f := newFixture(t, at, quotaStoreAt("user-1", 0, at))
	f.transcoder.outcome = func(int) (*transcode.Result, error) {
		return nil, &transcode.ProviderError{Provider: "streamforge", StatusCode: 400, Message: "format not supported"}
	}

	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), rawEvent()))

	asset := f.assets.get("vid-1")
	require.NotNil(t, asset)
	assert.Equal(t, models.VideoStatusFailed, asset.Status)
	assert.Equal(t, CodeUnsupportedFormat, asset.ErrorCode)
	assert.NotEmpty(t, asset.Error)

	// Exactly one provider call, no backoff sleeps, raw object deleted
	assert.Equal(t, 1, f.transcoder.calls)
	assert.Empty(t, f.slept)
	assert.Equal(t, []string{"raw-videos/user-1/vid-1.mp4"}, f.objects.deletedPaths())
	assert.Equal(t, []string{"vid-1"}, f.notifier.failed)
}

func TestRetryableFailuresThenSuccess(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	f := newFixture(t, at, quotaStoreAt("user-1", 0, at))
	f.transcoder.outcome = func(call int) (*transcode.Result, error) {
		if call < 3 {
			return nil, &transcode.ProviderError{Provider: "streamforge", StatusCode: 503, Message: "overloaded"}
		}
		return okResult(), nil
	}

	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), rawEvent()))

	asset := f.assets.get("vid-1")
	require.NotNil(t, asset)
	assert.Equal(t, models.VideoStatusReady, asset.Status)
	assert.Equal(t, 3, asset.Attempts)
	assert.Equal(t, 3, f.transcoder.calls)

	// Exponential backoff between attempts
	assert.Equal(t, []time.Duration{1500 * time.Millisecond, 3 * time.Second}, f.slept)
	assert.Equal(t, []string{"raw-videos/user-1/vid-1.mp4"}, f.objects.deletedPaths())
	assert.Equal(t, []string{"vid-1"}, f.notifier.ready)
}

func TestExhaustedRetryableKeepsRawObject(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	f := newFixture(t, at, quotaStoreAt("user-1", 0, at))
	f.transcoder.outcome = func(int) (*transcode.Result, error) {
		return nil, &transcode.ProviderError{Provider: "streamforge", StatusCode: 503, Message: "overloaded"}
	}

	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), rawEvent()))

	asset := f.assets.get("vid-1")
	require.NotNil(t, asset)
	assert.Equal(t, models.VideoStatusFailed, asset.Status)
	assert.Equal(t, CodeUnavailable, asset.ErrorCode)
	assert.Equal(t, 3, asset.Attempts)
	assert.Equal(t, 3, f.transcoder.calls)

	// The final failure was still retryable: keep the raw object for a
	// manual retry
	assert.Empty(t, f.objects.deletedPaths())
	assert.Equal(t, []string{"vid-1"}, f.notifier.failed)
}

func TestUnknownErrorTreatedAsRetryable(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	f := newFixture(t, at, quotaStoreAt("user-1", 0, at))
	f.transcoder.outcome = func(int) (*transcode.Result, error) {
		return nil, errors.New("wire snapped")
	}

	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), rawEvent()))

	asset := f.assets.get("vid-1")
	require.NotNil(t, asset)
	assert.Equal(t, models.VideoStatusFailed, asset.Status)
	assert.Equal(t, CodeUnknown, asset.ErrorCode)
	assert.Equal(t, "wire snapped", asset.Error)
	assert.Equal(t, 3, f.transcoder.calls)
}

func TestFinalizeRedeliveryKeepsAttemptBudget(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	store := quotaStoreAt("user-1", 0, at)
	f := newFixture(t, at, store)
	f.transcoder.outcome = func(int) (*transcode.Result, error) {
		return nil, &transcode.ProviderError{Provider: "streamforge", StatusCode: 503, Message: "overloaded"}
	}
	// The platform killed a prior invocation after two attempts and redelivers
	// the same finalize event
	f.assets.Save(context.Background(), &models.VideoAsset{
		ID:        "vid-1",
		OwnerID:   "user-1",
		Status:    models.VideoStatusProcessing,
		RawPath:   "raw-videos/user-1/vid-1.mp4",
		RawBucket: "test-bucket",
		Privacy:   "public",
		Attempts:  2,
	})

	require.NoError(t, f.pipeline.HandleFinalize(context.Background(), rawEvent()))

	asset := f.assets.get("vid-1")
	require.NotNil(t, asset)
	assert.Equal(t, models.VideoStatusFailed, asset.Status)
	assert.Equal(t, CodeUnavailable, asset.ErrorCode)

	// Only the one remaining attempt runs, and the original quota spend stands
	assert.Equal(t, 3, asset.Attempts)
	assert.Equal(t, 1, f.transcoder.calls)
	assert.Equal(t, 0, store.(*stubQuotaStore).uploads("user-1"))
}

func TestRetryMissingRawObject(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	store := quotaStoreAt("user-1", 0, at)
	f := newFixture(t, at, store)
	f.assets.Save(context.Background(), &models.VideoAsset{
		ID:      "vid-1",
		OwnerID: "user-1",
		Status:  models.VideoStatusFailed,
		RawPath: "raw-videos/user-1/vid-1.mp4",
	})
	// Raw object not present in fakeObjects

	asset, err := f.pipeline.Retry(context.Background(), "vid-1")
	require.NoError(t, err)
	assert.Equal(t, models.VideoStatusFailed, asset.Status)
	assert.Equal(t, CodeRawFileDeleted, asset.ErrorCode)

	// No transcode, and crucially no upload quota consumed
	assert.Zero(t, f.transcoder.calls)
	assert.Equal(t, 0, store.(*stubQuotaStore).uploads("user-1"))
}

func TestRetrySuccess(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	store := quotaStoreAt("user-1", 0, at)
	f := newFixture(t, at, store)
	f.objects.objects["raw-videos/user-1/vid-1.mp4"] = true
	f.assets.Save(context.Background(), &models.VideoAsset{
		ID:        "vid-1",
		OwnerID:   "user-1",
		Status:    models.VideoStatusFailed,
		ErrorCode: CodeUnavailable,
		Error:     "The video service is temporarily unavailable.",
		RawPath:   "raw-videos/user-1/vid-1.mp4",
		RawBucket: "test-bucket",
		Privacy:   "public",
		Attempts:  3,
	})

	asset, err := f.pipeline.Retry(context.Background(), "vid-1")
	require.NoError(t, err)
	assert.Equal(t, models.VideoStatusReady, asset.Status)
	assert.Empty(t, asset.ErrorCode)
	assert.Equal(t, 1, asset.Attempts) // fresh budget for an explicit retry
	assert.Equal(t, 1, f.transcoder.calls)
	assert.Equal(t, 0, store.(*stubQuotaStore).uploads("user-1"))
	assert.Equal(t, []string{"raw-videos/user-1/vid-1.mp4"}, f.objects.deletedPaths())
}

func TestRetryRejectsReadyAsset(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	f := newFixture(t, at, quotaStoreAt("user-1", 0, at))
	// A delivered video: raw object already reclaimed
	f.assets.Save(context.Background(), &models.VideoAsset{
		ID:      "vid-1",
		OwnerID: "user-1",
		Status:  models.VideoStatusReady,
		HLSURL:  "https://stream.test/abc/master.m3u8",
		RawPath: "raw-videos/user-1/vid-1.mp4",
	})

	_, err := f.pipeline.Retry(context.Background(), "vid-1")
	require.Error(t, err)

	// The delivered video is untouched
	asset := f.assets.get("vid-1")
	assert.Equal(t, models.VideoStatusReady, asset.Status)
	assert.Equal(t, "https://stream.test/abc/master.m3u8", asset.HLSURL)
	assert.Empty(t, asset.ErrorCode)
	assert.Zero(t, f.transcoder.calls)
}

func TestRetryProcessingAssetRejected(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	f := newFixture(t, at, quotaStoreAt("user-1", 0, at))
	f.assets.Save(context.Background(), &models.VideoAsset{
		ID:      "vid-1",
		OwnerID: "user-1",
		Status:  models.VideoStatusProcessing,
		RawPath: "raw-videos/user-1/vid-1.mp4",
	})

	_, err := f.pipeline.Retry(context.Background(), "vid-1")
	require.Error(t, err)
	assert.Equal(t, models.VideoStatusProcessing, f.assets.get("vid-1").Status)
}

func TestRetryUnknownAsset(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 10, 0, 0, time.UTC)
	f := newFixture(t, at, quotaStoreAt("user-1", 0, at))

	_, err := f.pipeline.Retry(context.Background(), "nope")
	assert.Error(t, err)
}
