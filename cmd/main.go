package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/travelora/crm-backend/config"
	"github.com/travelora/crm-backend/database"
	"github.com/travelora/crm-backend/internal/auditlog"
	"github.com/travelora/crm-backend/internal/auth"
	"github.com/travelora/crm-backend/internal/booking"
	"github.com/travelora/crm-backend/internal/customer"
	"github.com/travelora/crm-backend/internal/deal"
	"github.com/travelora/crm-backend/internal/lead"
	"github.com/travelora/crm-backend/internal/tenant"
	"github.com/travelora/crm-backend/internal/travelpackage"
	"github.com/travelora/crm-backend/routes"
	"github.com/travelora/crm-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	rdb, err := utils.InitRedis(cfg)
	if err != nil {
		log.Fatalf("redis init failed: %v", err)
	}

	log.Println("running database migrations...")
	if err := db.AutoMigrate(
		&tenant.Tenant{},
		&auth.User{},
		&auth.RefreshToken{},
		&auth.PasswordResetToken{},
		&lead.Lead{},
		&customer.Customer{},
		&deal.Deal{},
		&travelpackage.TravelPackage{},
		&booking.Booking{},
		&auditlog.AuditEvent{},
	); err != nil {
		log.Fatalf("auto-migrate failed: %v", err)
	}

	if err := auth.SeedDemoTenant(db); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	// Audit pipeline: events go through Kafka when brokers are
	// configured, straight to the database otherwise.
	auditRepo := auditlog.NewRepository(db)
	brokers := splitBrokers(cfg.KafkaBrokers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var recorder auth.Recorder
	producer := auditlog.NewProducer(brokers, cfg.KafkaAuditTopic)
	if producer != nil {
		recorder = producer
		defer producer.Close()
		go auditlog.StartConsumer(ctx, brokers, cfg.KafkaAuditTopic, "", auditRepo)
	} else {
		recorder = auditlog.NewDirectRecorder(auditRepo)
	}

	mailer := utils.NewSMTPMailer(cfg)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Tenant-Domain"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg, db, rdb, recorder, mailer)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func splitBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
