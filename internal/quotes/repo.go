package quotes

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) visible(ctx context.Context, memberProfileID int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.CheckoutQuote{}).
		Where("member_profile_id = ? AND status <> ?", memberProfileID, enums.RecordStatusDeleted)
}

func (r *repository) Create(ctx context.Context, quote *models.CheckoutQuote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *repository) Find(ctx context.Context, memberProfileID, id int64, clientUUID string) (*models.CheckoutQuote, error) {
	q := r.visible(ctx, memberProfileID).Where("id = ?", id)
	if clientUUID != "" {
		q = q.Where("client_uuid = ?", clientUUID)
	}
	var quote models.CheckoutQuote
	if err := q.First(&quote).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *repository) List(ctx context.Context, memberProfileID int64, filter ListFilter, offset, limit int) ([]models.CheckoutQuote, int64, error) {
	q := r.visible(ctx, memberProfileID)
	if filter.ClientUUID != "" {
		q = q.Where("client_uuid = ?", filter.ClientUUID)
	}
	if filter.ServiceType != "" {
		q = q.Where("service_type = ?", filter.ServiceType)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]models.CheckoutQuote, 0, limit)
	if err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
