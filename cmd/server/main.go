package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/octacity/octa-bank/internal/messagedelivery"
	"github.com/octacity/octa-bank/internal/messagerepo"
	"github.com/octacity/octa-bank/internal/messageservice"
	"github.com/octacity/octa-bank/internal/middleware"
	"github.com/octacity/octa-bank/internal/transactiondelivery"
	"github.com/octacity/octa-bank/internal/transactionrepo"
	"github.com/octacity/octa-bank/internal/transactionservice"
	"github.com/octacity/octa-bank/internal/userdelivery"
	"github.com/octacity/octa-bank/internal/userrepo"
	"github.com/octacity/octa-bank/internal/userservice"
	"github.com/octacity/octa-bank/pkg/configpkg"
	"github.com/octacity/octa-bank/pkg/currencypkg"
	"github.com/octacity/octa-bank/pkg/dbpkg"
	"github.com/octacity/octa-bank/pkg/tokenpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	provider := dbpkg.NewProvider(config.DBDriver, config.DBSource)
	defer provider.Close()

	conn, err := provider.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}

	server, err := createServer(conn, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	err = server.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}

func newTokenMaker(config configpkg.Config) (tokenpkg.Maker, error) {
	switch config.TokenType {
	case "jwt":
		return tokenpkg.NewJWTMaker(config.TokenSymmetricKey)
	case "", "paseto":
		return tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	}

	return nil, fmt.Errorf("unsupported token type %q", config.TokenType)
}

func createServer(conn dbpkg.SQLInterface, logger zerolog.Logger, config configpkg.Config) (*gin.Engine, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)
	messageRepo := messagerepo.NewRepoPGS(conn)

	tokenMaker, err := newTokenMaker(config)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	userService := userservice.New(userRepo)
	transactionService := transactionservice.New(transactionRepo, userRepo)
	messageService := messageservice.New(messageRepo, userRepo)

	if config.SeedAdminEmail != "" {
		ctx := logger.WithContext(context.Background())

		err := userService.EnsureAdmin(ctx, "Admin", config.SeedAdminEmail, config.SeedAdminPassword)
		if err != nil {
			return nil, errors.New("cannot seed admin account")
		}
	}

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config.AccessTokenDuration)
	transactionHandler := transactiondelivery.NewHandler(transactionService)
	messageHandler := messagedelivery.NewHandler(messageService)

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()

	server.Use(middleware.RequestLogger(logger))
	server.Use(gin.Recovery())

	server.POST("/auth/register", userHandler.Register)
	server.POST("/auth/login", userHandler.Login)

	authRoutes := server.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.POST("/auth/logout", userHandler.Logout)
	authRoutes.GET("/auth/me", userHandler.Me)

	authRoutes.GET("/transactions", transactionHandler.List)
	authRoutes.GET("/messages", messageHandler.List)
	authRoutes.POST("/messages", messageHandler.Send)
	authRoutes.PUT("/messages", messageHandler.MarkRead)

	adminRoutes := server.Group("/").Use(
		middleware.AuthMiddleware(tokenMaker),
		middleware.RequireAdmin(),
	)

	adminRoutes.GET("/users", userHandler.List)
	adminRoutes.PUT("/users", userHandler.Update)
	adminRoutes.POST("/transactions", transactionHandler.Create)
	adminRoutes.PUT("/transactions", transactionHandler.Update)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("currency", currencypkg.ValidCurrency)
		if err != nil {
			return nil, errors.New("cannot register currency validator")
		}
	}

	return server, nil
}
