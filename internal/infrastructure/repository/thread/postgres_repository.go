package thread

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"verse-server/services/chat-api/internal/domain/llm"
	domain "verse-server/services/chat-api/internal/domain/thread"
	"verse-server/services/chat-api/internal/infrastructure/database/entities"
	"verse-server/services/chat-api/internal/utils/idgen"
	"verse-server/services/chat-api/internal/utils/platformerrors"
)

// PostgresRepository persists threads and messages via PostgreSQL using GORM.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the thread record.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Thread) error {
	entity := entities.NewSchemaThread(t)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypePersistence,
			"failed to create thread",
			err,
			"56ac1820-b3fd-4e15-a97e-a89bf7dc4f69",
		)
	}

	t.ID = entity.ID
	t.CreatedAt = entity.CreatedAt
	t.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID fetches a thread by its public ID.
func (r *PostgresRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Thread, error) {
	var entity entities.Thread
	err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("thread not found: %s", publicID),
				nil,
				"67bd2931-c40e-4f26-ba8f-b9ac08ed507a",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypePersistence,
			"failed to fetch thread",
			err,
			"78ce3a42-d51f-4037-cb90-cabd19fe618b",
		)
	}

	return entity.EtoD(), nil
}

// ListByUser returns the user's threads, most recently updated first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Thread, error) {
	var records []entities.Thread
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypePersistence,
			"failed to list threads",
			err,
			"89df4b53-e620-4148-dca1-dbce2a0f729c",
		)
	}

	threads := make([]*domain.Thread, 0, len(records))
	for i := range records {
		threads = append(threads, records[i].EtoD())
	}
	return threads, nil
}

// Delete removes the thread; messages cascade at the schema level.
func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Thread{}, id).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypePersistence,
			"failed to delete thread",
			err,
			"9ae05c64-f731-4259-edb2-ecdf3b1083ad",
		)
	}
	return nil
}

// AppendMessage inserts one message and returns the persisted row.
func (r *PostgresRepository) AppendMessage(ctx context.Context, threadID uint, role llm.Role, content string) (*domain.Message, error) {
	if len(content) > domain.MaxMessageContentLength {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("message content exceeds %d characters", domain.MaxMessageContentLength),
			nil,
			"ab016d75-0842-436a-fec3-fde04c2194be",
		)
	}

	publicID, err := idgen.MessageID()
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"generate message id",
			err,
			"bc127e86-1953-447b-0fd4-0ef15d32a5cf",
		)
	}

	entity := entities.Message{
		PublicID: publicID,
		ThreadID: threadID,
		Role:     string(role),
		Content:  content,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypePersistence,
			"failed to append message",
			err,
			"cd238f97-2a64-458c-10e5-1f026e43b6d0",
		)
	}

	return entity.EtoD(), nil
}

// ListRecentMessages returns the last limit messages in ascending creation
// order. The query walks the index descending, then the slice is reversed.
func (r *PostgresRepository) ListRecentMessages(ctx context.Context, threadID uint, limit int) ([]*domain.Message, error) {
	var records []entities.Message
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypePersistence,
			"failed to list recent messages",
			err,
			"de349aa8-3b75-469d-21f6-20137f54c7e1",
		)
	}

	messages := make([]*domain.Message, len(records))
	for i := range records {
		messages[len(records)-1-i] = records[i].EtoD()
	}
	return messages, nil
}

// ListMessages returns all messages of a thread in ascending creation order.
func (r *PostgresRepository) ListMessages(ctx context.Context, threadID uint) ([]*domain.Message, error) {
	var records []entities.Message
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypePersistence,
			"failed to list messages",
			err,
			"ef45abb9-4c86-47ae-32a7-31248a65d8f2",
		)
	}

	messages := make([]*domain.Message, 0, len(records))
	for i := range records {
		messages = append(messages, records[i].EtoD())
	}
	return messages, nil
}

// Touch bumps the thread's updated_at.
func (r *PostgresRepository) Touch(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Thread{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("now()")).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypePersistence,
			"failed to touch thread",
			err,
			"f056bcca-5d97-48bf-43b8-42359b76e903",
		)
	}
	return nil
}

// Ensure interface compliance.
var _ domain.Repository = (*PostgresRepository)(nil)
