package service

import (
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/repository"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/shared/tally"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services aggregates the procurement services
type Services struct {
	PO        *POService
	PreGR     *PreGRService
	GQR       *GQRService
	Master    *MasterService
	Dashboard *DashboardService
}

func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, tallyClient *tally.Client, logger *zap.Logger) *Services {
	return &Services{
		PO:        NewPOService(repos.PO, repos.Master, tallyClient),
		PreGR:     NewPreGRService(repos.PreGR, repos.PO),
		GQR:       NewGQRService(repos.GQR, repos.PreGR, rdb, logger),
		Master:    NewMasterService(repos.Master),
		Dashboard: NewDashboardService(db, rdb, logger),
	}
}
