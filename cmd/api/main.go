package main

import (
	"fmt"
	"log"

	"github.com/suryssss/SkillStones-sub001/internal/activity"
	"github.com/suryssss/SkillStones-sub001/internal/config"
	"github.com/suryssss/SkillStones-sub001/internal/database"
	"github.com/suryssss/SkillStones-sub001/internal/http/handlers"
	"github.com/suryssss/SkillStones-sub001/internal/http/middleware"
	"github.com/suryssss/SkillStones-sub001/internal/models"
	"github.com/suryssss/SkillStones-sub001/internal/projects"
	"github.com/suryssss/SkillStones-sub001/internal/stones"
	"github.com/suryssss/SkillStones-sub001/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.DBDSN == "" || cfg.JWTSecret == "" {
		log.Fatal("DB_DSN and JWT_SECRET must be set")
	}

	db, err := database.ConnectMySQL(cfg.DBDSN)
	if err != nil {
		log.Fatal("failed connect db:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Stone{},
		&models.Message{},
		&models.Activity{},
	); err != nil {
		log.Fatal("failed migrate:", err)
	}

	// one hub per process; room membership lives for the server lifetime
	hub := ws.NewHub()

	projSvc := projects.NewService(db)
	stoneSvc := stones.NewService(db, projSvc)
	actSvc := activity.NewService(db, projSvc)

	r := gin.Default()

	authH := &handlers.AuthHandler{DB: db, JWTSecret: cfg.JWTSecret}
	r.POST("/api/v1/auth/register", authH.Register)
	r.POST("/api/v1/auth/login", authH.Login)

	wsH := &handlers.WSHandler{
		Hub:                  hub,
		JWTSecret:            cfg.JWTSecret,
		WSInsecureSkipVerify: cfg.WSInsecureSkipVerify,
	}
	r.GET("/ws", wsH.Handle)

	authed := r.Group("/api/v1")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	projH := &handlers.ProjectHandler{Projects: projSvc}
	authed.POST("/projects", projH.Create)
	authed.GET("/projects", projH.List)
	authed.GET("/projects/:id", projH.Get)
	authed.POST("/projects/:id/members", projH.AddMember)

	stoneH := &handlers.StoneHandler{Stones: stoneSvc, Hub: hub}
	authed.GET("/projects/:id/stones", stoneH.List)
	authed.POST("/projects/:id/stones", stoneH.Create)
	authed.PUT("/projects/:id/stones/:stoneId", stoneH.UpdateStatus)
	authed.PUT("/projects/:id/stones/:stoneId/assignee", stoneH.Assign)

	msgH := &handlers.MessageHandler{Stones: stoneSvc, Hub: hub}
	authed.GET("/stones/:id/messages", msgH.List)
	authed.POST("/stones/:id/messages", msgH.Send)

	actH := &handlers.ActivityHandler{Activities: actSvc}
	authed.GET("/activities", actH.ListForUser)
	authed.GET("/projects/:id/activities", actH.ListForProject)
	authed.GET("/stats", actH.Stats)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Println("listening on", addr)
	log.Fatal(r.Run(addr))
}
