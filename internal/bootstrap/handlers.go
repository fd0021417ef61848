package bootstrap

import (
	"database/sql"

	"courseware/internal/db"
	"courseware/internal/handlers"
	"courseware/internal/kafka"
	"courseware/internal/repositories"
	"courseware/internal/services"
	"courseware/internal/xmodule"
)

type HandlersBundle struct {
	StudentHandler *handlers.StudentHandler
	AdminHandler   *handlers.AdminHandler
	ModuleHandler  *handlers.ModuleHandler
}

type BootstrapBundle struct {
	Handlers     *HandlersBundle
	Repositories struct {
		ContentRepo *repositories.ContentRepository
		StateRepo   *repositories.StateRepository
		StudentRepo *repositories.StudentRepository
	}
}

func InitBootstrap(sqlDB *sql.DB, cache *db.RedisCache, kafkaBundle *kafka.KafkaBundle) *BootstrapBundle {
	b := &BootstrapBundle{}
	b.Repositories.ContentRepo = repositories.NewContentRepository(sqlDB)
	b.Repositories.StateRepo = repositories.NewStateRepository(sqlDB)
	b.Repositories.StudentRepo = repositories.NewStudentRepository(sqlDB)

	// A nil *Producer must not reach the services as a non-nil interface.
	var moduleProducer, studentProducer kafka.ProducerInterface
	if kafkaBundle != nil {
		if kafkaBundle.ModuleProducer != nil {
			moduleProducer = kafkaBundle.ModuleProducer
		}
		if kafkaBundle.StudentProducer != nil {
			studentProducer = kafkaBundle.StudentProducer
		}
	}

	registry := xmodule.DefaultRegistry()
	courses := services.NewCourseService(cache, b.Repositories.ContentRepo, registry)
	states := services.NewStateService(cache, b.Repositories.StateRepo, moduleProducer)

	b.Handlers = &HandlersBundle{
		StudentHandler: handlers.NewStudentHandler(services.NewStudentService(b.Repositories.StudentRepo, studentProducer)),
		AdminHandler:   handlers.NewAdminHandler(services.NewAdminService(b.Repositories.ContentRepo, courses, registry)),
		ModuleHandler:  handlers.NewModuleHandler(services.NewModuleService(courses, states, cache, xmodule.MustRenderer())),
	}
	return b
}
