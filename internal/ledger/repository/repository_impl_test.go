package repository_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/smallbiznis/giftcert/internal/ledger/domain"
	"github.com/smallbiznis/giftcert/internal/ledger/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	// Single writer, matching the runtime pool settings for sqlite.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE certificate_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_ref TEXT NOT NULL,
			recipient_name TEXT NOT NULL,
			amount BIGINT NOT NULL,
			serial TEXT,
			issued BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX ux_certificate_requests_serial ON certificate_requests(serial)`,
		`CREATE TABLE serial_counters (
			id INTEGER PRIMARY KEY,
			last_serial BIGINT NOT NULL
		)`,
		`INSERT INTO serial_counters (id, last_serial) VALUES (1, 0)`,
	}

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("schema exec failed: %v", err)
		}
	}

	return db
}

func seedRequest(t *testing.T, db *gorm.DB, repo domain.Repository, name string) int64 {
	t.Helper()

	id, err := repo.InsertRequest(context.Background(), db, &domain.CertificateRequest{
		OwnerRef:      "100500",
		RecipientName: name,
		Amount:        2000,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert request: %v", err)
	}
	return id
}

func counterValue(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var v int64
	if err := db.Raw("SELECT last_serial FROM serial_counters WHERE id = 1").Scan(&v).Error; err != nil {
		t.Fatalf("scan counter: %v", err)
	}
	return v
}

func TestInsertRequestAssignsSequentialIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.Provide()

	first := seedRequest(t, db, repo, "Alice Smith")
	second := seedRequest(t, db, repo, "Bob Jones")

	if first != 1 || second != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first, second)
	}
}

func TestIssueAssignsSequentialSerials(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()

	for i, want := range []string{"0001", "0002", "0003"} {
		id := seedRequest(t, db, repo, fmt.Sprintf("Recipient %d", i+1))
		serial, err := repo.Issue(ctx, db, id)
		if err != nil {
			t.Fatalf("issue %d: %v", id, err)
		}
		if serial != want {
			t.Fatalf("expected serial %s, got %s", want, serial)
		}
	}

	var issuedCount int64
	if err := db.Raw(
		"SELECT COUNT(1) FROM certificate_requests WHERE issued = TRUE AND serial IS NOT NULL",
	).Scan(&issuedCount).Error; err != nil {
		t.Fatalf("scan issued count: %v", err)
	}
	if issuedCount != 3 {
		t.Fatalf("expected 3 issued rows with serials, got %d", issuedCount)
	}
}

func TestIssueTwiceReturnsAlreadyIssued(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()

	id := seedRequest(t, db, repo, "Alice Smith")

	if _, err := repo.Issue(ctx, db, id); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	if _, err := repo.Issue(ctx, db, id); err != domain.ErrAlreadyIssued {
		t.Fatalf("second issue: expected ErrAlreadyIssued, got %v", err)
	}

	// The failed attempt must roll its counter increment back.
	if v := counterValue(t, db); v != 1 {
		t.Fatalf("expected counter 1 after rollback, got %d", v)
	}
}

func TestIssueUnknownIDRollsBackCounter(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()

	if _, err := repo.Issue(ctx, db, 99); err != domain.ErrAlreadyIssued {
		t.Fatalf("expected ErrAlreadyIssued for unknown id, got %v", err)
	}
	if v := counterValue(t, db); v != 0 {
		t.Fatalf("expected counter untouched at 0, got %d", v)
	}
}

func TestConcurrentIssueYieldsDistinctSerials(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()

	const n = 8
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, seedRequest(t, db, repo, fmt.Sprintf("Recipient %d", i+1)))
	}

	var wg sync.WaitGroup
	serials := make(chan string, n)
	errs := make(chan error, n)

	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			serial, err := repo.Issue(ctx, db, id)
			if err != nil {
				errs <- err
				return
			}
			serials <- serial
		}(id)
	}
	wg.Wait()
	close(serials)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent issue: %v", err)
	}

	got := make([]string, 0, n)
	for serial := range serials {
		got = append(got, serial)
	}
	sort.Strings(got)

	for i, serial := range got {
		want := fmt.Sprintf("%04d", i+1)
		if serial != want {
			t.Fatalf("expected serial %s at position %d, got %s (all: %v)", want, i, serial, got)
		}
	}
}

func TestFindUnissuedSkipsIssuedRows(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()

	id := seedRequest(t, db, repo, "Alice Smith")

	req, err := repo.FindUnissued(ctx, db, id)
	if err != nil {
		t.Fatalf("find unissued: %v", err)
	}
	if req == nil || req.ID != id {
		t.Fatalf("expected pending row %d, got %+v", id, req)
	}

	if _, err := repo.Issue(ctx, db, id); err != nil {
		t.Fatalf("issue: %v", err)
	}

	req, err = repo.FindUnissued(ctx, db, id)
	if err != nil {
		t.Fatalf("find unissued after issue: %v", err)
	}
	if req != nil {
		t.Fatalf("expected no pending row after issue, got %+v", req)
	}

	full, err := repo.Find(ctx, db, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if full == nil || !full.Issued || full.Serial == nil || *full.Serial != "0001" {
		t.Fatalf("expected issued row with serial 0001, got %+v", full)
	}
}
