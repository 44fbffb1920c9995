package services

import (
	"gorm.io/gorm"

	"github.com/dnoglop/task-joule/cache"
	"github.com/dnoglop/task-joule/storage"
	"github.com/dnoglop/task-joule/utils"
)

type ServiceManager struct {
	AuthenticationService AuthenticationService
	ProfileService        ProfileService
	InviteService         InviteService
	ProgramService        ProgramService
	TaskService           TaskService
	TaskImportService     TaskImportService
	ReportService         ReportService
	AvatarService         AvatarService
}

func NewServiceManager(db *gorm.DB, store *cache.Store, objects *storage.Client, mailer utils.Mailer) *ServiceManager {
	profiles := NewProfileService(db, store)
	return &ServiceManager{
		AuthenticationService: NewAuthenticationService(db),
		ProfileService:        profiles,
		InviteService:         NewInviteService(db, store, mailer),
		ProgramService:        NewProgramService(db, store),
		TaskService:           NewTaskService(db, store),
		TaskImportService:     NewTaskImportService(db, store),
		ReportService:         NewReportService(db),
		AvatarService:         NewAvatarService(objects, profiles),
	}
}
