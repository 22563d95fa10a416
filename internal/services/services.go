package services

import (
	"log/slog"
	"os"

	"github.com/pixelforge/nexus/internal/config"
	"github.com/pixelforge/nexus/internal/db"
	"github.com/pixelforge/nexus/internal/services/access"
	"github.com/pixelforge/nexus/internal/services/activity"
	"github.com/pixelforge/nexus/internal/services/document"
	"github.com/pixelforge/nexus/internal/services/document/disk_storage"
	"github.com/pixelforge/nexus/internal/services/project"
	"github.com/pixelforge/nexus/internal/services/session"
	"github.com/pixelforge/nexus/internal/services/suggestion"
	"github.com/pixelforge/nexus/internal/services/user"
	"github.com/pixelforge/nexus/pkg/llm/gemini"
)

type Services struct {
	User       *user.UserService
	Session    *session.SessionService
	Access     *access.AccessService
	Project    *project.ProjectService
	Document   *document.DocumentService
	Suggestion *suggestion.SuggestionService
	Activity   *activity.ActivityService

	db interface{ Close() error }
}

func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)

	var activitySvc *activity.ActivityService
	if conf.CLICKHOUSE_HOST != "" {
		chConn, err := activity.NewClickHouseConn(&activity.ClickHouseConfig{
			Host:     conf.CLICKHOUSE_HOST,
			Port:     conf.CLICKHOUSE_PORT,
			Database: conf.CLICKHOUSE_DATABASE,
			Username: conf.CLICKHOUSE_USERNAME,
			Password: conf.CLICKHOUSE_PASSWORD,
			UseTLS:   conf.CLICKHOUSE_USE_TLS,
		})
		if err != nil {
			slog.Warn("Failed to connect to ClickHouse for activity log", slog.Any("error", err))
		} else {
			activitySvc, err = activity.NewActivityService(chConn)
			if err != nil {
				slog.Warn("Failed to initialize activity log", slog.Any("error", err))
			} else {
				slog.Info("Connected to ClickHouse for activity log")
			}
		}
	}

	var suggestionSvc *suggestion.SuggestionService
	if conf.GEMINI_API_KEY != "" {
		suggestionSvc = suggestion.NewSuggestionService(gemini.New(&gemini.ClientOptions{
			BaseURL: conf.GEMINI_BASE_URL,
			ApiKey:  conf.GEMINI_API_KEY,
		}))
	}

	if err := os.MkdirAll(conf.UPLOADS_DIR, 0755); err != nil {
		slog.Warn("Failed to create uploads directory", slog.String("path", conf.UPLOADS_DIR), slog.Any("error", err))
	}

	svc := &Services{
		User:       user.NewUserService(user.NewUserRepo(dbconn)),
		Session:    session.NewSessionService(session.NewSessionRepo(dbconn)),
		Access:     access.NewAccessService(access.NewAccessRepo(dbconn)),
		Project:    project.NewProjectService(project.NewProjectRepo(dbconn)),
		Document:   document.NewDocumentService(document.NewDocumentRepo(dbconn), disk_storage.NewDiskStorage(conf.UPLOADS_DIR)),
		Suggestion: suggestionSvc,
		Activity:   activitySvc,

		db: dbconn,
	}

	return svc
}

func (s *Services) Close() {
	if err := s.db.Close(); err != nil {
		slog.Warn("Failed to close database connection", slog.Any("error", err))
	}
}
