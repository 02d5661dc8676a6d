package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/redis/go-redis/v9"

	"github.com/salinmesh/lead-intake/internal/botdefense"
	appconfig "github.com/salinmesh/lead-intake/internal/config"
	"github.com/salinmesh/lead-intake/internal/notify"
	"github.com/salinmesh/lead-intake/internal/ratelimit"
	"github.com/salinmesh/lead-intake/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildRateLimitStore returns the shared Redis-backed store when Redis is
// available, otherwise a process-local one.
func BuildRateLimitStore(redisClient *redis.Client, cfg *appconfig.Config, logger *logging.Logger) ratelimit.Store {
	if logger == nil {
		logger = logging.Default()
	}
	if redisClient != nil {
		logger.Info("rate limiting backed by redis", "window", cfg.RateLimitWindow, "max", cfg.RateLimitMax)
		return ratelimit.NewRedisStore(redisClient, cfg.RateLimitWindow, cfg.RateLimitMax)
	}
	logger.Info("rate limiting in memory", "window", cfg.RateLimitWindow, "max", cfg.RateLimitMax)
	return ratelimit.NewMemoryStore(cfg.RateLimitWindow, cfg.RateLimitMax)
}

// BuildVerifier returns the reCAPTCHA verifier, or nil when no secret is
// configured. Nil means verification is disabled and every token passes,
// which must be a deliberate choice in production.
func BuildVerifier(cfg *appconfig.Config, logger *logging.Logger) botdefense.Verifier {
	verifier := botdefense.NewRecaptchaVerifier(cfg.RecaptchaSecretKey, cfg.VerifyTimeout, logger)
	if verifier == nil {
		return nil
	}
	return verifier
}

// BuildEmailSender selects the email transport from config. "auto" prefers
// SendGrid when an API key is present, then SES when a client was built; the
// stub sender is a last resort that logs instead of sending.
func BuildEmailSender(cfg *appconfig.Config, sesClient *sesv2.Client, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}

	provider := cfg.EmailProvider
	if provider == "" {
		provider = "auto"
	}

	if provider == "sendgrid" || provider == "auto" {
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			logger.Info("email transport: sendgrid", "from", cfg.SendGridFromEmail)
			return sender
		}
		if provider == "sendgrid" {
			logger.Warn("sendgrid selected but no API key configured, falling back to stub sender")
			return notify.NewStubEmailSender(logger)
		}
	}

	if provider == "ses" || provider == "auto" {
		if sender := notify.NewSESSender(sesClient, notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			logger.Info("email transport: ses", "from", cfg.SESFromEmail)
			return sender
		}
	}

	logger.Warn("no email transport configured, using stub sender")
	return notify.NewStubEmailSender(logger)
}
