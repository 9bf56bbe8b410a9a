package repository

import (
	"context"
	"fmt"

	"github.com/smallbiznis/giftcert/internal/ledger/domain"
	"github.com/smallbiznis/giftcert/internal/ledger/format"
	pkgdb "github.com/smallbiznis/giftcert/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertRequest(ctx context.Context, db *gorm.DB, req *domain.CertificateRequest) (int64, error) {
	if err := db.WithContext(ctx).Create(req).Error; err != nil {
		return 0, err
	}
	return req.ID, nil
}

func (r *repo) FindUnissued(ctx context.Context, db *gorm.DB, id int64) (*domain.CertificateRequest, error) {
	var item domain.CertificateRequest
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_ref, recipient_name, amount, serial, issued, created_at
		 FROM certificate_requests
		 WHERE id = ? AND issued = FALSE
		 LIMIT 1`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, id int64) (*domain.CertificateRequest, error) {
	var item domain.CertificateRequest
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_ref, recipient_name, amount, serial, issued, created_at
		 FROM certificate_requests
		 WHERE id = ?
		 LIMIT 1`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.CertificateRequest, error) {
	var items []domain.CertificateRequest
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_ref, recipient_name, amount, serial, issued, created_at
		 FROM certificate_requests
		 ORDER BY id`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Issue assigns the next serial to the target row in a single transaction.
// The counter update runs first: its row lock serializes concurrent
// issuances, so no two transactions ever observe the same last_serial. The
// guarded row update aborts the transaction when the row is missing or
// already issued, rolling the counter increment back.
func (r *repo) Issue(ctx context.Context, db *gorm.DB, id int64) (string, error) {
	var serial string
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`UPDATE serial_counters SET last_serial = last_serial + 1 WHERE id = 1`,
		).Error; err != nil {
			return err
		}

		var next int64
		if err := tx.Raw(
			`SELECT last_serial FROM serial_counters WHERE id = 1`,
		).Scan(&next).Error; err != nil {
			return err
		}

		formatted, err := format.Serial(next)
		if err != nil {
			return err
		}

		res := tx.Exec(
			`UPDATE certificate_requests
			 SET serial = ?, issued = TRUE
			 WHERE id = ? AND issued = FALSE`,
			formatted,
			id,
		)
		if res.Error != nil {
			if pkgdb.IsDuplicateKeyErr(res.Error) {
				// Only reachable when the counter lags the ledger, e.g.
				// after a bad manual restore.
				return fmt.Errorf("serial %s already bound: counter out of sync: %w", formatted, res.Error)
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrAlreadyIssued
		}

		serial = formatted
		return nil
	})
	if err != nil {
		return "", err
	}
	return serial, nil
}
