package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-agenda/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-agenda/internal/db"
	"github.com/BruksfildServices01/salon-agenda/internal/logging"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
	"github.com/BruksfildServices01/salon-agenda/internal/routes"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	defer log.Sync()

	db := dbpkg.NewDB(cfg)

	// O redis liga os nós: cada escrita publica o nome da coleção e todos os
	// nós reexecutam as queries assinadas. Sem redis o fan-out fica local ao
	// processo, suficiente para rodar um nó só.
	var notifier realtime.Notifier
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(rdb.Context()).Err(); err != nil {
		log.Warn("redis indisponível, fan-out apenas local", zap.Error(err))
		notifier = realtime.NewLocalNotifier()
	} else {
		notifier = realtime.NewRedisNotifier(rdb, log)
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, notifier, log)

	log.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
