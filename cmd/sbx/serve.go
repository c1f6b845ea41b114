package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RiosenBeq/NASA/internal/config"
	"github.com/RiosenBeq/NASA/internal/corpus"
	"github.com/RiosenBeq/NASA/internal/events"
	"github.com/RiosenBeq/NASA/internal/kg"
	"github.com/RiosenBeq/NASA/internal/llm"
	"github.com/RiosenBeq/NASA/internal/server"
	"github.com/RiosenBeq/NASA/internal/store"
	"github.com/RiosenBeq/NASA/internal/store/memory"
	"github.com/RiosenBeq/NASA/internal/store/postgres"
	biosync "github.com/RiosenBeq/NASA/internal/sync"
	"github.com/RiosenBeq/NASA/internal/worker"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the explorer HTTP server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create an HTTP client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Open the store: Postgres when configured, in-memory otherwise.
		var st store.Store
		if cfg.DatabaseURL != "" {
			st, err = postgres.New(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			logger.Info("store opened", "backend", "postgres")
		} else {
			st = memory.New()
			logger.Info("store opened", "backend", "memory (DATABASE_URL not set)")

			// Without a database the store starts empty; bootstrap it from a
			// local corpus CSV when one is configured.
			if cfg.CorpusCSV != "" {
				pubs, err := corpus.ReadFile(cfg.CorpusCSV)
				if err != nil {
					st.Close()
					return err
				}
				ctx := context.Background()
				count, err := st.UpsertPublications(ctx, pubs)
				if err != nil {
					st.Close()
					return err
				}
				nodes, edges := kg.NewBuilder(kg.DefaultTerms()).Build(pubs)
				if err := st.ReplaceGraph(ctx, nodes, edges); err != nil {
					st.Close()
					return err
				}
				logger.Info("corpus bootstrapped",
					"csv", cfg.CorpusCSV, "publications", count,
					"nodes", len(nodes), "edges", len(edges))
			}
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				st.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (SBX_NATS_URL not set)")
		}

		// Create the language model client.
		var llmClient llm.Client
		if cfg.OpenAIKey != "" {
			llmClient = llm.NewChatClient(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel, logger)
			logger.Info("language model enabled")
		} else {
			llmClient = llm.DisabledClient{}
			logger.Info("language model disabled (OPENAI_API_KEY not set)")
		}

		// Create server components.
		explorerServer := server.NewExplorerServer(st, publisher, llmClient, logger)
		httpHandler := explorerServer.NewHTTPHandler(server.HandlerOptions{
			AuthToken:  cfg.AuthToken,
			CORSOrigin: cfg.CORSOrigin,
			StaticDir:  cfg.StaticDir,
		})
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: httpHandler,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the snapshot scheduler if any destinations are configured.
		var scheduler *biosync.Scheduler
		if cfg.SyncInterval > 0 {
			var dests []biosync.Destination

			if cfg.SyncS3Bucket != "" {
				s3Dest, err := biosync.NewS3Destination(
					context.Background(),
					cfg.SyncS3Bucket,
					cfg.SyncS3Key,
					cfg.SyncS3Region,
					cfg.SyncS3Endpoint,
				)
				if err != nil {
					logger.Error("failed to create S3 snapshot destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("snapshot S3 destination enabled", "bucket", cfg.SyncS3Bucket, "key", cfg.SyncS3Key)
				}
			}

			if cfg.SyncGitRepo != "" {
				gitDest := biosync.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch)
				dests = append(dests, gitDest)
				logger.Info("snapshot git destination enabled", "repo", cfg.SyncGitRepo, "file", cfg.SyncGitFile)
			}

			if len(dests) > 0 {
				scheduler = biosync.NewScheduler(st, dests, cfg.SyncInterval, logger)
				scheduler.Start()
				logger.Info("snapshot scheduler started", "interval", cfg.SyncInterval)
			}
		}

		// Start the graph rebuilder if NATS is available.
		var rebuildCancel context.CancelFunc
		if cfg.NATSURL != "" {
			rebuildSub, err := events.NewNATSSubscriber(cfg.NATSURL)
			if err != nil {
				logger.Error("failed to create rebuilder subscriber", "err", err)
			} else {
				rebuilder := worker.NewRebuilder(st, publisher, kg.DefaultTerms(), logger)
				var rebuildCtx context.Context
				rebuildCtx, rebuildCancel = context.WithCancel(context.Background())
				go func() {
					if err := rebuilder.StartSubscriber(rebuildCtx, rebuildSub); err != nil {
						logger.Error("rebuilder subscriber error", "err", err)
					}
					rebuildSub.Close()
				}()
				logger.Info("graph rebuilder started")
			}
		}

		logger.Info("explorer server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if rebuildCancel != nil {
			rebuildCancel()
			logger.Info("graph rebuilder stopped")
		}

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("snapshot scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
