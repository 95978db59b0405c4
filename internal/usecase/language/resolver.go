package language

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/cache"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/metrics"
)

// CacheTTL is how long a detected language is remembered for a text
const CacheTTL = time.Hour

const cacheKeyPrefix = "lang:"

// Detector identifies the language of a text
type Detector interface {
	Detect(ctx context.Context, text string) (entities.LanguageDetection, error)
}

// ConfidencePolicy decides whether a detection is trusted. A rejected
// detection falls back to the default language and is not cached.
// A nil policy accepts every detection.
type ConfidencePolicy func(entities.LanguageDetection) bool

// MinConfidence returns a policy rejecting detections below threshold
func MinConfidence(threshold float64) ConfidencePolicy {
	return func(d entities.LanguageDetection) bool { return d.Confidence >= threshold }
}

// ResolverConfig configures a Resolver
type ResolverConfig struct {
	DefaultLanguage string
	Timeout         time.Duration
	TTL             time.Duration
	Policy          ConfidencePolicy
}

// Resolver picks the language of a voice turn
type Resolver struct {
	detector Detector
	cache    cache.Store
	cfg      ResolverConfig
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewResolver creates a resolver. detector and store may be nil.
func NewResolver(detector Detector, store cache.Store, cfg ResolverConfig, logger *zap.Logger, m *metrics.Metrics) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.TTL <= 0 {
		cfg.TTL = CacheTTL
	}
	return &Resolver{
		detector: detector,
		cache:    store,
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
	}
}

// Default returns the configured fallback language
func (r *Resolver) Default() string {
	return r.cfg.DefaultLanguage
}

// CacheKey returns the cache key for a text sample
func CacheKey(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// Resolve returns the language for text. A non-empty hint wins without any
// detection call. The result is never empty.
func (r *Resolver) Resolve(ctx context.Context, text, hint string) string {
	if hint = strings.TrimSpace(hint); hint != "" {
		return hint
	}
	if strings.TrimSpace(text) == "" {
		return r.cfg.DefaultLanguage
	}

	key := CacheKey(text)
	if r.cache != nil {
		code, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn("⚠️ Language cache read failed", zap.Error(err))
		}
		if ok && code != "" {
			r.metrics.RecordLanguageCache(true)
			return code
		}
		r.metrics.RecordLanguageCache(false)
	}

	if r.detector == nil {
		return r.cfg.DefaultLanguage
	}

	detectCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	det, err := r.detector.Detect(detectCtx, text)
	if err != nil {
		r.logger.Warn("⚠️ Language detection failed, using default",
			zap.String("default", r.cfg.DefaultLanguage),
			zap.Error(err),
		)
		return r.cfg.DefaultLanguage
	}
	det.Code = strings.TrimSpace(det.Code)
	if det.Code == "" {
		return r.cfg.DefaultLanguage
	}
	if r.cfg.Policy != nil && !r.cfg.Policy(det) {
		r.logger.Info("Language detection below confidence policy",
			zap.String("code", det.Code),
			zap.Float64("confidence", det.Confidence),
		)
		return r.cfg.DefaultLanguage
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, det.Code, r.cfg.TTL); err != nil {
			r.logger.Warn("⚠️ Language cache write failed", zap.Error(err))
		}
	}
	return det.Code
}
