package adapters

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

type gormVectorStore struct {
	logger outbound.LoggerPort
	db     *gorm.DB
}

// NewGormVectorStore persists embeddings as JSON vectors in postgres.
// Inserts conflict-skip on (course_id, content_id, content_type): an
// already-indexed entry is never refreshed.
func NewGormVectorStore(db *gorm.DB, logger outbound.LoggerPort) outbound.VectorStorePort {
	return &gormVectorStore{
		logger: logger,
		db:     db,
	}
}

func (s *gormVectorStore) UpsertSkipExisting(ctx context.Context, records []outbound.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]*domain.CourseEmbedding, 0, len(records))
	for _, record := range records {
		vector, err := json.Marshal(record.Vector)
		if err != nil {
			return err
		}
		rows = append(rows, &domain.CourseEmbedding{
			ID:          uuid.New(),
			CourseID:    record.CourseID,
			ContentID:   record.ContentID,
			ContentType: record.ContentType,
			Content:     record.Content,
			Vector:      datatypes.JSON(vector),
			CreatedAt:   time.Now().UTC(),
		})
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "course_id"}, {Name: "content_id"}, {Name: "content_type"},
			},
			DoNothing: true,
		}).
		Create(rows).Error
}

func (s *gormVectorStore) ByCourse(ctx context.Context, courseID uuid.UUID) ([]outbound.EmbeddingRecord, error) {
	var rows []*domain.CourseEmbedding
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]outbound.EmbeddingRecord, 0, len(rows))
	for _, row := range rows {
		var vector []float32
		if err := json.Unmarshal(row.Vector, &vector); err != nil {
			s.logger.WarnWithFields("Skipping embedding with unreadable vector", map[string]interface{}{
				"content_id": row.ContentID,
			})
			continue
		}
		records = append(records, outbound.EmbeddingRecord{
			CourseID:    row.CourseID,
			ContentID:   row.ContentID,
			ContentType: row.ContentType,
			Content:     row.Content,
			Vector:      vector,
		})
	}
	return records, nil
}
