package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aniketduttaAD/open-education-backend-sub001/config"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// Open connects to postgres and migrates the course schema.
func Open(cfg *config.PostgresConfig) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(
		&domain.Roadmap{},
		&domain.Section{},
		&domain.Subtopic{},
		&domain.GenerationProgress{},
		&domain.CourseEmbedding{},
	); err != nil {
		return nil, err
	}
	return conn, nil
}
