package router

import (
	"context"
	"time"

	boardapp "github.com/oksasatya/student-onboarding-board/internal/application"
	"github.com/oksasatya/student-onboarding-board/internal/container"
	"github.com/oksasatya/student-onboarding-board/internal/infrastructure/search"
	handlers "github.com/oksasatya/student-onboarding-board/internal/interface/http"
	"github.com/oksasatya/student-onboarding-board/internal/router/modules"
)

type BoardModuleDeps struct {
	Service        *boardapp.Service
	BoardHandler   *handlers.BoardHandler
	StudentHandler *handlers.StudentHandler
}

// buildNotifier logs every notification and, when RabbitMQ is up, also
// queues it for the notification worker.
func buildNotifier() boardapp.Notifier {
	logger := container.GetLogger()
	chain := boardapp.MultiNotifier{boardapp.LogNotifier{Logger: logger}}
	if pub := container.GetRabbitPub(); pub != nil {
		chain = append(chain, boardapp.QueueNotifier{Pub: pub, Logger: logger})
	}
	return chain
}

func buildBoardDeps() BoardModuleDeps {
	var index boardapp.StudentIndexer
	if es := container.GetES(); es != nil {
		index = search.NewStudentIndex(es, container.GetConfig().ESStudentsIndex)
	}

	service := boardapp.NewService(
		container.GetBoardStore(),
		buildNotifier(),
		index,
		container.GetLogger(),
	)

	return BoardModuleDeps{
		Service:        service,
		BoardHandler:   handlers.NewBoardHandler(service, container.GetLogger()),
		StudentHandler: handlers.NewStudentHandler(service, container.GetLogger()),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	rdb := container.GetRedis()
	deps := buildBoardDeps()

	// the starting board is not in the search index until mirrored once
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = deps.Service.IndexBoard(ctx)

	r.Add(modules.NewHealthModule(rdb))
	r.Add(modules.NewBoardModule(deps.BoardHandler, rdb, cfg.RateLimitPerMin))
	r.Add(modules.NewStudentModule(deps.StudentHandler, rdb, cfg.RateLimitPerMin))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
