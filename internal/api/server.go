package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/stunor/origo-organiser/docs"
	v1 "github.com/stunor/origo-organiser/internal/api/handler/v1"
	"github.com/stunor/origo-organiser/internal/api/middleware"
	"github.com/stunor/origo-organiser/internal/config"
	"github.com/stunor/origo-organiser/internal/eventor"
	"github.com/stunor/origo-organiser/internal/repository"
	"github.com/stunor/origo-organiser/internal/repository/dao"
	"github.com/stunor/origo-organiser/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	courseHandler := s.initCourseHandler(db)
	entryHandler := s.initEntryHandler(db)
	competitorHandler := s.initCompetitorHandler(db)
	s.MountHandlers(courseHandler, entryHandler, competitorHandler)

	return s
}

func (s *Server) initCourseHandler(db *gorm.DB) *v1.CourseHandler {
	svc := NewCourseService(db)
	handler := v1.NewCourseHandler(svc)

	return handler
}

func (s *Server) initEntryHandler(db *gorm.DB) *v1.EntryHandler {
	svc := NewEntryService(s.Config, db)
	handler := v1.NewEntryHandler(svc)

	return handler
}

func (s *Server) initCompetitorHandler(db *gorm.DB) *v1.CompetitorHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	competitorRepo := repository.NewCompetitorRepository(dao.NewEntryDAO(db))
	svc := service.NewCompetitorService(eventRepo, competitorRepo)
	handler := v1.NewCompetitorHandler(svc)

	return handler
}

func NewCourseService(db *gorm.DB) *service.CourseService {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	courseRepo := repository.NewCourseRepository(dao.NewCourseDAO(db))

	return service.NewCourseService(eventRepo, courseRepo, dao.NewTransactor(db))
}

// NewEntryService wires the entry import with its federation client. It is shared with the CLI and the scheduler.
func NewEntryService(conf *config.AppConfig, db *gorm.DB) *service.EntryService {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	competitorRepo := repository.NewCompetitorRepository(dao.NewEntryDAO(db))
	client := eventor.NewClient(conf.Eventor.Timeout)

	return service.NewEntryService(eventRepo, competitorRepo, client, dao.NewTransactor(db))
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(courseHandler *v1.CourseHandler, entryHandler *v1.EntryHandler, competitorHandler *v1.CompetitorHandler) {
	const basePath = "/"

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.POST("/courses/:raceID", courseHandler.HandleImportCourse)
		authenticated.POST("/entries/:eventID", entryHandler.HandleDownloadEntries)

		authenticated.GET("/races/:raceID/courses", courseHandler.HandleGetRaceCourses)
		authenticated.GET("/races/:raceID/competitors", competitorHandler.HandleGetCompetitors)
		authenticated.DELETE("/races/:raceID/competitors", competitorHandler.HandleDeleteCompetitors)
		authenticated.GET("/competitors/:competitorID", competitorHandler.HandleGetCompetitor)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Origo organiser API"
	docs.SwaggerInfo.Description = "Imports IOF course data and federation entry lists for orienteering races."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
