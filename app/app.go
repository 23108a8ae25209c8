// Package app wires the backend client, the optional infrastructure and the
// controllers from configuration. Every binary builds one App at startup.
package app

import (
	"context"
	"log"
	"time"

	"qbank/audit"
	"qbank/client"
	"qbank/config"
	"qbank/feedback"
	"qbank/generation"
	"qbank/metacache"
	"qbank/moderation"
	"qbank/storage"
)

type App struct {
	Config config.Config

	Client   *client.Client
	Activity *feedback.Log
	Stats    *moderation.StatsBoard
	Buckets  *moderation.Controller
	Reports  *moderation.ReportViewer
	Generate *generation.Controller
	Cascade  *generation.Cascade
	Metadata *metacache.Cache
	Audit    audit.Publisher

	closers []func() error
}

// New builds an App. Redis, Kafka and S3 are optional: when one is not
// configured or unreachable the App falls back (memory cache, log audit, no
// archive) and logs why.
func New(ctx context.Context, cfg config.Config) *App {
	a := &App{
		Config:   cfg,
		Client:   client.NewClient(cfg.APIURL, client.WithTimeout(cfg.APITimeout)),
		Activity: feedback.NewLog(config.LogCapacity),
	}

	store := a.initializeMetadataStore()
	a.Metadata = metacache.New(a.Client, store, cfg.MetadataCacheTTL)
	a.Audit = a.initializeAudit()

	a.Stats = moderation.NewStatsBoard(a.Client, a.Activity)
	a.Buckets = moderation.NewController(a.Client, a.Stats, a.Activity, a.Audit)
	a.Reports = moderation.NewReportViewer(a.Client, a.Stats, a.Activity, a.Audit)

	opts := []generation.Option{generation.WithAudit(a.Audit)}
	if archive := a.initializeArchive(ctx); archive != nil {
		opts = append(opts, generation.WithArchive(archive))
	}
	a.Generate = generation.NewController(a.Client, a.Activity, opts...)
	a.Cascade = generation.NewCascade(a.Metadata)

	log.Printf("✅ Backend API: %s (timeout %s)", a.Client.BaseURL(), a.Client.Timeout())
	return a
}

// Close releases every connection opened by New
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("⚠️ close: %v", err)
		}
	}
	a.closers = nil
}

func (a *App) initializeMetadataStore() metacache.Store {
	if a.Config.RedisAddr == "" {
		log.Println("Redis not configured; caching metadata in memory")
		return metacache.NewMemoryStore()
	}
	store, err := metacache.NewRedisStore(metacache.RedisConfig{
		Addr:     a.Config.RedisAddr,
		Password: a.Config.RedisPassword,
		DB:       a.Config.RedisDB,
	})
	if err != nil {
		log.Printf("⚠️ %v; caching metadata in memory", err)
		return metacache.NewMemoryStore()
	}
	log.Printf("✅ Metadata cache: redis %s (ttl %s)", a.Config.RedisAddr, a.Config.MetadataCacheTTL)
	a.closers = append(a.closers, store.Close)
	return store
}

func (a *App) initializeAudit() audit.Publisher {
	if len(a.Config.KafkaBrokers) == 0 {
		log.Println("Kafka not configured; audit events go to the log")
		return audit.LogPublisher{}
	}
	pub, err := audit.NewKafkaPublisher(audit.ProducerConfig{
		Brokers: a.Config.KafkaBrokers,
		Topic:   a.Config.AuditTopic,
	})
	if err != nil {
		log.Printf("⚠️ %v; audit events go to the log", err)
		return audit.LogPublisher{}
	}
	a.closers = append(a.closers, pub.Close)
	return pub
}

// initializeArchive returns nil unless S3_BUCKET is set
func (a *App) initializeArchive(ctx context.Context) *storage.NotesArchive {
	if a.Config.S3Bucket == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s3, err := storage.NewS3(ctx, storage.S3Config{
		Region:       a.Config.S3Region,
		Profile:      a.Config.S3Profile,
		UsePathStyle: a.Config.S3UsePathStyle,
	})
	if err != nil {
		log.Printf("⚠️ S3 init failed: %v; notes will not be archived", err)
		return nil
	}
	log.Printf("✅ Notes archive: s3://%s/%s", a.Config.S3Bucket, a.Config.S3Prefix)
	return storage.NewNotesArchive(s3, a.Config.S3Bucket, a.Config.S3Prefix)
}
