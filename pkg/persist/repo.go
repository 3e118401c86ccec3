package persist

import (
	"context"

	"gorm.io/gorm"
)

type IBookEvent interface {
	Create(ctx context.Context, record *BookEvent) (*BookEvent, error)
	BulkCreate(ctx context.Context, records []*BookEvent) ([]*BookEvent, error)
}

type IRepo interface {
	BookEvent() IBookEvent
}

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) IRepo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) BookEvent() IBookEvent {
	return NewBookEventSQLRepo(r.db)
}

type BookEventSQLRepo struct {
	db *gorm.DB
}

func NewBookEventSQLRepo(db *gorm.DB) *BookEventSQLRepo {
	return &BookEventSQLRepo{
		db: db,
	}
}

func (r *BookEventSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *BookEventSQLRepo) Create(ctx context.Context, record *BookEvent) (*BookEvent, error) {
	return record, r.dbWithContext(ctx).Create(record).Error
}

func (r *BookEventSQLRepo) BulkCreate(ctx context.Context, records []*BookEvent) ([]*BookEvent, error) {
	return records, r.dbWithContext(ctx).Create(records).Error
}
