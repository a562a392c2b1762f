package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Reainz/Snapflow-sub000/internal/models"
	"github.com/Reainz/Snapflow-sub000/internal/quota"
	"github.com/Reainz/Snapflow-sub000/internal/storage"
	"github.com/Reainz/Snapflow-sub000/internal/transcode"
)

// ObjectStore is the object-storage collaborator as the pipeline uses it
type ObjectStore interface {
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	Metadata(ctx context.Context, path string) (*storage.ObjectMetadata, error)
	TokenURL(path, token string) string
	SignedURL(path string) (string, error)
	Bucket() string
}

// Transcoder is the transcoding collaborator
type Transcoder interface {
	Transcode(ctx context.Context, r transcode.Request) (*transcode.Result, error)
}

// AssetStore loads and persists video asset records
type AssetStore interface {
	Get(ctx context.Context, id string) (*models.VideoAsset, error)
	Save(ctx context.Context, asset *models.VideoAsset) error
}

// Notifier hands finished assets to the notification collaborator.
// Fire-and-forget: implementations log failures and never return them.
type Notifier interface {
	VideoReady(ctx context.Context, asset *models.VideoAsset)
	VideoFailed(ctx context.Context, asset *models.VideoAsset)
}

// AlertSink appends rate-limit violation alerts for the admin surface
type AlertSink interface {
	RateLimitViolation(ctx context.Context, userID, resourceID, action string, retryAfter int)
}

// Pipeline drives a video asset through processing -> ready/failed. Every
// invocation is stateless; all state lives on the persisted asset record.
type Pipeline struct {
	limiter    *quota.Limiter
	objects    ObjectStore
	transcoder Transcoder
	assets     AssetStore
	notifier   Notifier
	alerts     AlertSink
	backoff    Backoff

	// Sleep and Now are replaceable in tests
	Sleep func(time.Duration)
	Now   func() time.Time
}

func NewPipeline(limiter *quota.Limiter, objects ObjectStore, transcoder Transcoder, assets AssetStore, notifier Notifier, alerts AlertSink) *Pipeline {
	return &Pipeline{
		limiter:    limiter,
		objects:    objects,
		transcoder: transcoder,
		assets:     assets,
		notifier:   notifier,
		alerts:     alerts,
		backoff:    DefaultBackoff,
		Sleep:      time.Sleep,
		Now:        time.Now,
	}
}

// HandleFinalize processes a raw-object-finalized event. Events that are not
// raw video uploads are ignored. A quota denial is terminal for the asset and
// consumes no transcode attempts.
func (p *Pipeline) HandleFinalize(ctx context.Context, evt StorageObjectEvent) error {
	if !IsVideoUpload(evt) {
		log.Printf("Ingest: ignoring non-video object %s (%s)", evt.Path, evt.ContentType)
		return nil
	}
	userID, assetID, _ := ParseRawVideoPath(evt.Path)

	asset, err := p.assets.Get(ctx, assetID)
	if err != nil {
		return fmt.Errorf("failed to load asset %s: %w", assetID, err)
	}
	if asset == nil {
		// Draft record missing (upstream step skipped or raced); start fresh
		asset = &models.VideoAsset{ID: assetID, OwnerID: userID}
	}
	if asset.IsTerminal() {
		// Only the explicit retry entry point may reopen a settled asset;
		// a re-fired finalize event must not
		log.Printf("Ingest: asset %s already %s, ignoring re-fired event", assetID, asset.Status)
		return nil
	}

	asset.Privacy = resolvePrivacy(evt.Metadata, asset)

	// Delivery is at-least-once. A redelivered event for an asset already
	// mid-processing on this same raw object must not consume a second quota
	// unit or refresh the attempt budget.
	redelivered := asset.Status == models.VideoStatusProcessing && asset.RawPath == evt.Path

	if !redelivered {
		if err := p.admitUpload(ctx, asset, userID, evt.Path); err != nil || asset.Status == models.VideoStatusFailed {
			return err
		}
		asset.Attempts = 0
	}

	bucket := evt.Bucket
	if bucket == "" {
		bucket = p.objects.Bucket()
	}

	asset.Status = models.VideoStatusProcessing
	asset.RawPath = evt.Path
	asset.RawBucket = bucket
	if err := p.assets.Save(ctx, asset); err != nil {
		return fmt.Errorf("failed to persist processing state on asset %s: %w", assetID, err)
	}

	srcURL, err := p.resolveSourceURL(ctx, evt.Path, evt.Metadata)
	if err != nil {
		return fmt.Errorf("failed to resolve source URL for %s: %w", evt.Path, err)
	}

	return p.runTranscode(ctx, asset, srcURL)
}

// admitUpload runs the upload quota check for a fresh finalize event. On
// denial it reclaims the raw object and marks the asset terminally failed.
func (p *Pipeline) admitUpload(ctx context.Context, asset *models.VideoAsset, userID, path string) error {
	decision, err := p.limiter.CheckAndConsume(ctx, userID, quota.ActionUpload)
	if err != nil {
		return fmt.Errorf("upload quota check failed: %w", err)
	}
	if !decision.Allowed {
		// Over quota: reclaim the storage, mark the asset terminally failed.
		// The raw delete is best-effort and never blocks the denial path.
		if delErr := p.objects.Delete(ctx, path); delErr != nil {
			log.Printf("Ingest: failed to delete raw object %s after quota denial: %v", path, delErr)
		}
		now := p.Now().UTC()
		asset.Status = models.VideoStatusFailed
		asset.ErrorCode = CodeRateLimitExceeded
		asset.Error = fmt.Sprintf("Upload limit reached. Please try again in %s.", humanizeRetry(decision.RetryAfterSeconds))
		asset.LastErrorAt = &now
		if saveErr := p.assets.Save(ctx, asset); saveErr != nil {
			return fmt.Errorf("failed to persist quota denial on asset %s: %w", asset.ID, saveErr)
		}
		p.alerts.RateLimitViolation(ctx, userID, asset.ID, quota.ActionUpload, decision.RetryAfterSeconds)
		log.Printf("Ingest: upload denied for user=%s asset=%s, retry in %ds", userID, asset.ID, decision.RetryAfterSeconds)
	}
	return nil
}

// Retry re-enters a failed asset into processing. Only this entry point may
// reopen a failed asset; it does not consume upload quota, and it gets a
// fresh attempt budget because an operator explicitly asked for it.
func (p *Pipeline) Retry(ctx context.Context, assetID string) (*models.VideoAsset, error) {
	asset, err := p.assets.Get(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset %s: %w", assetID, err)
	}
	if asset == nil {
		return nil, fmt.Errorf("asset %s not found", assetID)
	}
	if asset.Status != models.VideoStatusFailed {
		// Ready assets have already had their raw object reclaimed; reopening
		// one here would destroy a delivered video
		return nil, fmt.Errorf("asset %s is %s, only failed assets can be retried", assetID, asset.Status)
	}

	// The raw object may be gone: deleted by a terminal outcome or by an
	// external lifecycle policy
	exists := false
	if asset.RawPath != "" {
		exists, err = p.objects.Exists(ctx, asset.RawPath)
		if err != nil {
			return nil, fmt.Errorf("failed to check raw object %s: %w", asset.RawPath, err)
		}
	}
	if !exists {
		now := p.Now().UTC()
		asset.Status = models.VideoStatusFailed
		asset.ErrorCode = CodeRawFileDeleted
		asset.Error = "The original upload is no longer available. Please upload the video again."
		asset.LastErrorAt = &now
		if saveErr := p.assets.Save(ctx, asset); saveErr != nil {
			return nil, saveErr
		}
		return asset, nil
	}

	asset.Status = models.VideoStatusProcessing
	asset.Attempts = 0
	if err := p.assets.Save(ctx, asset); err != nil {
		return nil, err
	}

	srcURL, err := p.resolveSourceURL(ctx, asset.RawPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source URL for %s: %w", asset.RawPath, err)
	}

	if err := p.runTranscode(ctx, asset, srcURL); err != nil {
		return nil, err
	}
	return asset, nil
}

// resolveSourceURL picks a readable URL for the transcoder: an existing
// public download token first, then one from object metadata, then a
// short-lived signed URL as the last resort.
func (p *Pipeline) resolveSourceURL(ctx context.Context, path string, custom map[string]string) (string, error) {
	if token := custom["download_token"]; token != "" {
		return p.objects.TokenURL(path, token), nil
	}
	if meta, err := p.objects.Metadata(ctx, path); err == nil && meta.DownloadToken != "" {
		return p.objects.TokenURL(path, meta.DownloadToken), nil
	} else if err != nil {
		log.Printf("Ingest: metadata lookup failed for %s, falling back to signed URL: %v", path, err)
	}
	return p.objects.SignedURL(path)
}

// runTranscode is the bounded retry loop. The attempt counter is persisted on
// the asset before every provider call so the total budget holds even if the
// platform kills and re-runs the invocation.
func (p *Pipeline) runTranscode(ctx context.Context, asset *models.VideoAsset, srcURL string) error {
	for {
		asset.Attempts++
		if err := p.assets.Save(ctx, asset); err != nil {
			return fmt.Errorf("failed to persist attempt count on asset %s: %w", asset.ID, err)
		}

		start := p.Now()
		result, err := p.transcoder.Transcode(ctx, transcode.Request{
			SourceURL: srcURL,
			Privacy:   asset.Privacy,
		})
		elapsed := p.Now().Sub(start)

		if err == nil {
			return p.finishReady(ctx, asset, result, elapsed)
		}

		cls, ok := Classify(err)
		if !ok {
			cls = Classification{Code: CodeUnknown, Message: err.Error(), Retryable: true}
		}

		now := p.Now().UTC()
		asset.Error = cls.Message
		asset.ErrorCode = cls.Code
		asset.LastErrorAt = &now

		if !cls.Retryable {
			// Terminal: remaining attempt budget is irrelevant
			log.Printf("Ingest: terminal failure for asset=%s code=%s: %v", asset.ID, cls.Code, err)
			return p.finishFailed(ctx, asset, true)
		}

		if asset.Attempts >= p.backoff.MaxAttempts {
			// Out of attempts. The final failure was still retryable, so the
			// raw object stays around for a manual retry.
			log.Printf("Ingest: attempts exhausted for asset=%s code=%s: %v", asset.ID, cls.Code, err)
			return p.finishFailed(ctx, asset, false)
		}

		asset.Status = models.VideoStatusProcessing
		if saveErr := p.assets.Save(ctx, asset); saveErr != nil {
			return fmt.Errorf("failed to persist retry state on asset %s: %w", asset.ID, saveErr)
		}
		delay := p.backoff.Delay(asset.Attempts)
		log.Printf("Ingest: retryable failure for asset=%s code=%s, attempt %d/%d, next in %s", asset.ID, cls.Code, asset.Attempts, p.backoff.MaxAttempts, delay)
		p.Sleep(delay)
	}
}

func (p *Pipeline) finishReady(ctx context.Context, asset *models.VideoAsset, result *transcode.Result, elapsed time.Duration) error {
	now := p.Now().UTC()
	asset.Status = models.VideoStatusReady
	asset.HLSURL = result.PlaybackURL
	asset.ThumbnailURL = result.ThumbnailURL
	asset.DurationSeconds = result.DurationSeconds
	asset.AssetProviderID = result.AssetID
	asset.DeliveryMode = "hls"
	asset.ProcessedAt = &now
	asset.ProcessingDurationMs = elapsed.Milliseconds()
	asset.Error = ""
	asset.ErrorCode = ""
	asset.LastErrorAt = nil

	if err := p.assets.Save(ctx, asset); err != nil {
		return fmt.Errorf("failed to persist ready state on asset %s: %w", asset.ID, err)
	}

	if err := p.objects.Delete(ctx, asset.RawPath); err != nil {
		log.Printf("Ingest: failed to delete raw object %s after success: %v", asset.RawPath, err)
	}

	p.notifier.VideoReady(ctx, asset)
	log.Printf("Ingest: asset=%s ready in %dms after %d attempt(s)", asset.ID, asset.ProcessingDurationMs, asset.Attempts)
	return nil
}

func (p *Pipeline) finishFailed(ctx context.Context, asset *models.VideoAsset, deleteRaw bool) error {
	asset.Status = models.VideoStatusFailed
	if err := p.assets.Save(ctx, asset); err != nil {
		return fmt.Errorf("failed to persist failed state on asset %s: %w", asset.ID, err)
	}

	if deleteRaw {
		if err := p.objects.Delete(ctx, asset.RawPath); err != nil {
			log.Printf("Ingest: failed to delete raw object %s after terminal failure: %v", asset.RawPath, err)
		}
	}

	p.notifier.VideoFailed(ctx, asset)
	return nil
}

func resolvePrivacy(metadata map[string]string, asset *models.VideoAsset) string {
	if p := metadata["privacy"]; p != "" {
		return p
	}
	if asset.Privacy != "" {
		return asset.Privacy
	}
	return "public"
}

// humanizeRetry renders a retry-after duration: minutes above 60 seconds,
// seconds otherwise. Exactly 60 stays "60 seconds".
func humanizeRetry(seconds int) string {
	if seconds > 60 {
		return fmt.Sprintf("%d minutes", (seconds+59)/60)
	}
	return fmt.Sprintf("%d seconds", seconds)
}
