package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"inspiration-poster-server/modules/archive"
	"inspiration-poster-server/modules/common/config"
	redisutil "inspiration-poster-server/modules/common/redis"
	"inspiration-poster-server/modules/content"
	"inspiration-poster-server/modules/credential"
	"inspiration-poster-server/modules/hub"
	"inspiration-poster-server/modules/imagegen"
	"inspiration-poster-server/modules/poster"
	"inspiration-poster-server/modules/theme"
	"inspiration-poster-server/modules/worker"
)

// enableCORS - the poster UI runs on a separate origin
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "inspiration-poster-server",
	})
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// every theme must carry a style prompt and a layout before serving
	if err := theme.ValidateCatalog(); err != nil {
		log.Fatalf("❌ Theme catalog invalid: %v", err)
	}

	// credential slot: Redis when available, in-process otherwise
	var credStore credential.Store
	if cfg.RedisEnabled() {
		rdb := redisutil.Connect(cfg)
		if rdb == nil {
			log.Fatal("❌ Failed to connect to Redis")
		}
		credStore = credential.NewRedisStore(rdb)
	} else {
		log.Println("⚠️  Redis not configured, using in-memory credential store")
		credStore = credential.NewMemoryStore("")
	}
	credential.Seed(context.Background(), credStore, cfg.GeminiAPIKey)

	statusHub := hub.NewHub()
	classifier := poster.NewClassifier()
	workflow := poster.NewWorkflow(
		content.NewService(cfg),
		imagegen.NewService(cfg),
		credStore,
		statusHub,
		cfg.FinalizeDelay,
	)

	posterHandler := poster.NewHandler(workflow, classifier)
	credHandler := credential.NewHandler(credStore)

	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/ws", statusHub.HandleWS)
	r.HandleFunc("/api/themes", theme.HandleList).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/poster/generate", posterHandler.HandleGenerate).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/poster/status", posterHandler.HandleStatus).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/credential", credHandler.HandleSave).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/credential/status", credHandler.HandleStatus).Methods("GET", "OPTIONS")

	// job queue needs Redis; without it only synchronous generation is served
	if cfg.RedisEnabled() {
		queueRdb := redisutil.Connect(cfg)
		if queueRdb == nil {
			log.Fatal("❌ Failed to connect to Redis for job queue")
		}

		var archiver worker.Archiver
		if cfg.ArchiveEnabled() {
			client, err := archive.NewClient(cfg)
			if err != nil {
				log.Fatalf("❌ Failed to initialize archive: %v", err)
			}
			archiver = client
			archiveHandler := archive.NewHandler(client)
			r.HandleFunc("/api/poster/archive", archiveHandler.HandleList).Methods("GET", "OPTIONS")
			log.Println("✅ Poster archive enabled")
		}

		jobHandler := worker.NewHandler(queueRdb)
		jobHandler.RegisterRoutes(r)

		queueWorker := worker.NewWorker(queueRdb, workflow, classifier, archiver)
		go queueWorker.Start(context.Background())
	}

	log.Printf("🚀 Inspiration Poster Server starting on port %s", cfg.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost:%s/ws", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
