package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/spotalert/internal/billing"
	"github.com/example/spotalert/internal/facematch"
	"github.com/example/spotalert/internal/logging"
	"github.com/example/spotalert/internal/notify"
	"github.com/example/spotalert/internal/objectstore"
	"github.com/example/spotalert/internal/repository"
)

// AlertStore defines the alert persistence operations needed by the coordinator.
type AlertStore interface {
	Save(ctx context.Context, record *repository.AlertRecord) error
	FindByAlertID(ctx context.Context, alertID string) (*repository.AlertRecord, error)
}

// UsageStore defines the ledger operations needed by the coordinator.
type UsageStore interface {
	Save(ctx context.Context, entry *repository.UsageEntry) error
	SumSince(ctx context.Context, recipient string, from time.Time) ([]repository.ChannelUsage, int64, error)
	Reset(ctx context.Context) error
	All(ctx context.Context) ([]repository.UsageEntry, error)
}

// HandleInput is one incoming image submission.
type HandleInput struct {
	ImageBytes     []byte
	Filename       string
	ContentType    string
	Plan           string
	RecipientEmail string
}

// HandleResult is the outcome returned to the caller.
type HandleResult struct {
	AlertID        string
	Classification string
	Matches        []facematch.Match
	ImageKey       string
}

type cachedAlert struct {
	AlertID        string            `json:"alert_id"`
	Classification string            `json:"classification"`
	ImageKey       string            `json:"image_key"`
	Matches        []facematch.Match `json:"matches"`
	CreatedAt      time.Time         `json:"created_at"`
}

// IngestionCoordinator orchestrates the ingestion flow: classify, persist,
// record, meter, and conditionally notify.
type IngestionCoordinator struct {
	alerts          AlertStore
	usage           UsageStore
	cache           Cache
	matcher         facematch.Client
	store           objectstore.Client
	mailer          notify.Mailer
	operatorAddress string
	logger          *zap.Logger
	now             func() time.Time
	retryAttempts   int
	initialBackoff  time.Duration
	maxBackoff      time.Duration
}

// NewIngestionCoordinator constructs a new coordinator instance.
func NewIngestionCoordinator(
	alerts AlertStore,
	usage UsageStore,
	cache Cache,
	matcher facematch.Client,
	store objectstore.Client,
	mailer notify.Mailer,
	operatorAddress string,
	logger *zap.Logger,
) *IngestionCoordinator {
	return &IngestionCoordinator{
		alerts:          alerts,
		usage:           usage,
		cache:           cache,
		matcher:         matcher,
		store:           store,
		mailer:          mailer,
		operatorAddress: operatorAddress,
		logger:          logger.Named("ingestion_coordinator"),
		now:             time.Now,
		retryAttempts:   3,
		initialBackoff:  50 * time.Millisecond,
		maxBackoff:      time.Second,
	}
}

// Handle runs one ingestion. Classification and image persistence failures
// propagate; everything downstream of the ledger writes is best-effort.
func (c *IngestionCoordinator) Handle(ctx context.Context, in HandleInput) (*HandleResult, error) {
	alertID := uuid.NewString()
	opLogger := logging.WithOperation(c.logger, "usecase.handle_alert", alertID)

	recipient := strings.TrimSpace(in.RecipientEmail)
	if recipient == "" {
		recipient = c.operatorAddress
	}
	plan := billing.NormalizePlan(in.Plan)

	if err := c.matcher.EnsureCollection(ctx); err != nil {
		wrapped := logging.NewOperationError("usecase.ensure_collection", alertID, err)
		opLogger.Error("collection setup failed", zap.Error(wrapped))
		return nil, wrapped
	}

	matches, err := c.matcher.Search(ctx, in.ImageBytes)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.face_search", alertID, err)
		opLogger.Error("face search failed", zap.Error(wrapped))
		return nil, wrapped
	}

	detectedAt := c.now().UTC()
	key := storageKey(detectedAt, in.Filename)
	if err := c.store.Put(ctx, key, in.ImageBytes, in.ContentType); err != nil {
		wrapped := logging.NewOperationError("usecase.persist_image", alertID, err)
		opLogger.Error("image persistence failed", zap.Error(wrapped))
		return nil, wrapped
	}

	classification := repository.ClassificationUnknownFace
	if len(matches) > 0 {
		classification = repository.ClassificationKnownFace
	}

	record := &repository.AlertRecord{
		AlertID:        alertID,
		Classification: classification,
		ImageKey:       key,
		CreatedAt:      detectedAt,
	}
	if err := c.alerts.Save(ctx, record); err != nil {
		opLogger.Error("failed to persist alert record", zap.Error(err))
		return nil, err
	}

	// Two ledger entries per ingestion regardless of outcome. This mirrors
	// production billing; see DESIGN.md before changing it.
	for _, ch := range []billing.Channel{billing.ChannelEmail, billing.ChannelApp} {
		entry := &repository.UsageEntry{
			Recipient: recipient,
			Plan:      string(plan),
			Channel:   string(ch),
			Cost:      int64(billing.UnitCost(ch)),
			CreatedAt: detectedAt,
		}
		if err := c.usage.Save(ctx, entry); err != nil {
			opLogger.Error("failed to persist usage entry", zap.Error(err), zap.String("channel", string(ch)))
			return nil, err
		}
	}

	c.checkCeiling(ctx, opLogger, recipient, plan)

	if classification == repository.ClassificationUnknownFace {
		body := notify.AlertBody(detectedAt, key)
		if err := c.mailer.Send(ctx, recipient, notify.AlertSubject, body); err != nil {
			opLogger.Warn("alert notification failed", zap.Error(err), zap.String("recipient", recipient))
		}
	}

	result := &HandleResult{
		AlertID:        alertID,
		Classification: classification,
		Matches:        matches,
		ImageKey:       key,
	}
	c.cacheResult(ctx, opLogger, result, detectedAt)
	return result, nil
}

// checkCeiling compares month-to-date spend against the plan ceiling and
// fires a top-up notice when exceeded. Never fails the ingestion.
func (c *IngestionCoordinator) checkCeiling(ctx context.Context, opLogger *zap.Logger, recipient string, plan billing.Plan) {
	_, total, err := c.usage.SumSince(ctx, recipient, billing.MonthStart(c.now()))
	if err != nil {
		opLogger.Warn("month-to-date sum failed", zap.Error(err))
		return
	}

	ceiling := billing.Ceiling(plan)
	if billing.Amount(total) <= ceiling {
		return
	}

	opLogger.Info("plan ceiling exceeded",
		zap.String("recipient", recipient),
		zap.String("plan", string(plan)),
		zap.String("spent", billing.Amount(total).String()),
		zap.String("ceiling", ceiling.String()))

	body := notify.TopUpBody(plan, billing.Amount(total), ceiling)
	if err := c.mailer.Send(ctx, recipient, notify.TopUpSubject, body); err != nil {
		opLogger.Warn("top-up notice failed", zap.Error(err), zap.String("recipient", recipient))
	}
}

// GetAlert retrieves a cached ingestion outcome or loads from persistence.
func (c *IngestionCoordinator) GetAlert(ctx context.Context, alertID string) (*repository.AlertRecord, error) {
	cacheKey := alertCacheKey(alertID)
	if cached, err := c.withRedisGet(ctx, alertID, "cache.get.alert", cacheKey); err == nil {
		var payload cachedAlert
		if err := json.Unmarshal([]byte(cached), &payload); err != nil {
			logging.WithOperation(c.logger, "usecase.get_alert", alertID).Warn("failed to decode cached alert", zap.Error(err))
		} else {
			return &repository.AlertRecord{
				AlertID:        payload.AlertID,
				Classification: payload.Classification,
				ImageKey:       payload.ImageKey,
				CreatedAt:      payload.CreatedAt,
			}, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logging.WithOperation(c.logger, "usecase.get_alert", alertID).Warn("failed to read cache", zap.Error(err))
	}

	return c.alerts.FindByAlertID(ctx, alertID)
}

func (c *IngestionCoordinator) cacheResult(ctx context.Context, opLogger *zap.Logger, result *HandleResult, createdAt time.Time) {
	cached := cachedAlert{
		AlertID:        result.AlertID,
		Classification: result.Classification,
		ImageKey:       result.ImageKey,
		Matches:        result.Matches,
		CreatedAt:      createdAt,
	}

	serialized, err := json.Marshal(cached)
	if err != nil {
		opLogger.Warn("failed to serialize alert for cache", zap.Error(err))
		return
	}

	if err := c.withRedisRetry(ctx, result.AlertID, "cache.set.alert", func() error {
		return c.cache.Set(ctx, alertCacheKey(result.AlertID), string(serialized), 5*time.Minute)
	}); err != nil {
		opLogger.Warn("failed to cache alert result", zap.Error(err))
	}
}

func alertCacheKey(alertID string) string {
	return fmt.Sprintf("alert:%s", alertID)
}

// storageKey derives the object key from the capture instant and the
// original filename. Millisecond granularity only; collisions are accepted.
func storageKey(ts time.Time, filename string) string {
	name := path.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == "/" {
		name = "capture.jpg"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("uploads/%d_%s", ts.UnixMilli(), name)
}

func (c *IngestionCoordinator) withRedisRetry(ctx context.Context, alertID, operation string, fn func() error) error {
	if c.retryAttempts <= 1 {
		err := fn()
		return logging.NewOperationError(operation, alertID, err)
	}

	backoff := c.initialBackoff
	opLogger := logging.WithOperation(c.logger, operation, alertID)
	var err error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return logging.NewOperationError(operation, alertID, ctx.Err())
			case <-time.After(backoff):
			}
			if next := backoff * 2; next <= c.maxBackoff {
				backoff = next
			}
		}

		err = fn()
		if err == nil {
			if attempt > 0 {
				opLogger.Info("redis operation succeeded after retry", zap.Int("attempt", attempt+1))
			}
			return nil
		}

		if !isTransientError(err) || attempt == c.retryAttempts-1 {
			opLogger.Error("redis operation failed", zap.Error(err), zap.Int("attempt", attempt+1))
			return logging.NewOperationError(operation, alertID, err)
		}

		opLogger.Warn("transient redis error", zap.Error(err), zap.Int("attempt", attempt+1))
	}
	return logging.NewOperationError(operation, alertID, err)
}

func (c *IngestionCoordinator) withRedisGet(ctx context.Context, alertID, operation, cacheKey string) (string, error) {
	var result string
	err := c.withRedisRetry(ctx, alertID, operation, func() error {
		value, err := c.cache.Get(ctx, cacheKey)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var temporary interface{ Temporary() bool }
	if errors.As(err, &temporary) && temporary.Temporary() {
		return true
	}

	return false
}
