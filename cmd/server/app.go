package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/phrazzld/buyone/internal/api"
	"github.com/phrazzld/buyone/internal/config"
	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/events"
	"github.com/phrazzld/buyone/internal/gateway"
	"github.com/phrazzld/buyone/internal/platform/natsjs"
	"github.com/phrazzld/buyone/internal/platform/postgres"
	"github.com/phrazzld/buyone/internal/redact"
	"github.com/phrazzld/buyone/internal/service"
	"github.com/phrazzld/buyone/internal/service/auth"
	"github.com/redis/go-redis/v9"
)

const (
	// mediaConsumerName is the durable JetStream consumer the media service
	// uses for product-deleted events.
	mediaConsumerName = "media-product-deleted"

	eventHandlerTimeout = 30 * time.Second
	rateLimitKeyPrefix  = "buyone:ratelimit:"
)

// application owns the resources of one running service process and
// releases them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	db         *sql.DB
	nc         *nats.Conn
	queue      *events.Queue
	subscriber *natsjs.Subscriber
	redis      *redis.Client
}

func newApplication(cfg *config.Config, logger *slog.Logger) *application {
	return &application{config: cfg, logger: logger}
}

// connectNATS dials the bus once per process and remembers the connection
// for cleanup.
func (app *application) connectNATS(name string) (jetstream.JetStream, error) {
	nc, js, err := natsjs.Connect(app.config.NATS.URL, name, app.logger)
	if err != nil {
		return nil, err
	}
	app.nc = nc
	return js, nil
}

// buildProduct wires the product and category rule engines. Product
// deletions go out through the async queue to JetStream, or nowhere when no
// NATS URL is configured.
func (app *application) buildProduct(ctx context.Context) (http.Handler, error) {
	cfg := app.config

	db, err := openDatabase(ctx, cfg.Database.URL, app.logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL == "" {
		app.logger.Warn("NATS url not set, product deleted events will be discarded")
	} else {
		js, err := app.connectNATS("buyone-product")
		if err != nil {
			return nil, err
		}
		if err := natsjs.EnsureStream(ctx, js, cfg.Product.EventStream, cfg.Product.DeletedSubject); err != nil {
			return nil, err
		}
		publisher = natsjs.NewEventPublisher(js, cfg.Product.DeletedSubject, app.logger)
	}

	app.queue = events.NewQueue(publisher, events.QueueConfig{
		Size:    cfg.Product.EventQueueSize,
		Workers: cfg.Product.EventWorkers,
	}, app.logger)
	app.queue.Start(ctx)

	productService := service.NewProductService(
		postgres.NewPostgresProductStore(db, app.logger),
		app.queue,
		service.ProductConfig{MaxImages: cfg.Media.MaxProductImages},
		app.logger,
	)
	categoryService := service.NewCategoryService(postgres.NewPostgresCategoryStore(db, app.logger), app.logger)

	return newProductRouter(
		api.NewProductHandler(productService, app.logger),
		api.NewCategoryHandler(categoryService, app.logger),
		app.logger,
	), nil
}

// buildUser wires accounts, password hashing and token issuing.
func (app *application) buildUser(ctx context.Context) (http.Handler, error) {
	cfg := app.config

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.logger.Info("JWT service initialized", "token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	db, err := openDatabase(ctx, cfg.Database.URL, app.logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)
	userService := service.NewUserService(postgres.NewPostgresUserStore(db, app.logger), hasher, hasher, app.logger)

	return newUserRouter(
		api.NewUserHandler(userService, app.logger),
		api.NewAuthHandler(userService, jwtService, app.logger),
		app.logger,
	), nil
}

// buildMedia wires the media rule engine over the JetStream object store and
// subscribes it to product-deleted events so a product's images go with it.
func (app *application) buildMedia(ctx context.Context) (http.Handler, error) {
	cfg := app.config
	if cfg.NATS.URL == "" {
		return nil, errors.New("media service requires a NATS url (BUYONE_NATS_URL) for object storage")
	}

	db, err := openDatabase(ctx, cfg.Database.URL, app.logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	js, err := app.connectNATS("buyone-media")
	if err != nil {
		return nil, err
	}
	objects, err := natsjs.OpenObjectStore(ctx, js, cfg.Media.Bucket, app.logger)
	if err != nil {
		return nil, err
	}

	mediaService := service.NewMediaService(
		postgres.NewPostgresMediaStore(db, app.logger),
		objects,
		postgres.NewPostgresProductStore(db, app.logger),
		db,
		service.MediaConfig{
			PublicBaseURL:    cfg.Media.PublicBaseURL,
			MaxFileSize:      cfg.Media.MaxFileSize,
			MaxProductImages: cfg.Media.MaxProductImages,
		},
		app.logger,
	)

	if err := natsjs.EnsureStream(ctx, js, cfg.Product.EventStream, cfg.Product.DeletedSubject); err != nil {
		return nil, err
	}
	app.subscriber = natsjs.NewSubscriber(func(ctx context.Context, event events.ProductDeletedEvent) error {
		_, err := mediaService.DeleteByOwner(ctx, event.ProductID, domain.OwnerProduct)
		return err
	}, eventHandlerTimeout, app.logger)
	if err := app.subscriber.Start(ctx, js, cfg.Product.EventStream, cfg.Product.DeletedSubject, mediaConsumerName); err != nil {
		return nil, err
	}

	return newMediaRouter(api.NewMediaHandler(mediaService, cfg.Media.MaxFileSize, app.logger), app.logger), nil
}

// buildGateway wires token verification, the Redis rate limiter and the
// reverse proxies. Rate limiting is off when no Redis address is configured.
func (app *application) buildGateway(ctx context.Context) (http.Handler, error) {
	cfg := app.config

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	var limiter gateway.Limiter
	switch {
	case cfg.Redis.Addr == "":
		app.logger.Warn("redis address not set, rate limiting disabled")
	case cfg.Gateway.RateLimit <= 0:
		app.logger.Warn("rate limit is zero, rate limiting disabled")
	default:
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		if err := app.redis.Ping(pingCtx).Err(); err != nil {
			// The limiter fails open, so an unreachable Redis only degrades it.
			app.logger.Warn("redis ping failed", "error", redact.Error(err))
		}
		cancel()
		limiter = gateway.NewSlidingWindowLimiter(app.redis, cfg.Gateway.RateLimit, cfg.Gateway.RateLimitWindow, rateLimitKeyPrefix)
		app.logger.Info("rate limiting enabled",
			"limit", cfg.Gateway.RateLimit,
			"window", cfg.Gateway.RateLimitWindow.String())
	}

	return gateway.NewRouter(gateway.Upstreams{
		Product: cfg.Gateway.ProductServiceURL,
		User:    cfg.Gateway.UserServiceURL,
		Media:   cfg.Gateway.MediaServiceURL,
	}, jwtService, limiter, app.logger)
}

// cleanup releases resources in reverse order of acquisition. It is safe to
// call on a partially built application.
func (app *application) cleanup(ctx context.Context) {
	if app.subscriber != nil {
		app.subscriber.Stop()
	}
	if app.queue != nil {
		if err := app.queue.Stop(ctx); err != nil {
			app.logger.Error("failed to drain event queue", "error", redact.Error(err))
		}
	}
	if app.nc != nil {
		if err := app.nc.Drain(); err != nil {
			app.logger.Error("failed to drain NATS connection", "error", redact.Error(err))
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("failed to close redis client", "error", redact.Error(err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", redact.Error(err))
		}
	}
}
