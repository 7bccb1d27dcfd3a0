package product

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/blipwear/blip-server/model"
)

func newRepoWithMock(t *testing.T) (ProductRepository, sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewProductRepository(sqlxDB), mock, sqlxDB
}

func TestUpdate_RowMatched(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	name := "Renamed Jacket"
	q := regexp.QuoteMeta("UPDATE products SET name = ? WHERE id = ?")

	// The DSN sets clientFoundRows, so the driver reports matched rows:
	// a value-identical update on an existing row still comes back as 1.
	mock.ExpectExec(q).
		WithArgs(name, uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.Update(context.Background(), 1, &model.UpdateProductRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !found {
		t.Fatal("Update should report an existing row as found")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdate_RowMissing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	name := "Renamed Jacket"
	q := regexp.QuoteMeta("UPDATE products SET name = ? WHERE id = ?")

	mock.ExpectExec(q).
		WithArgs(name, uint64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := repo.Update(context.Background(), 999, &model.UpdateProductRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if found {
		t.Fatal("Update should report a missing row as not found")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdate_MultipleFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	name := "Renamed Jacket"
	price := int64(219900)
	q := regexp.QuoteMeta("UPDATE products SET name = ?, price = ? WHERE id = ?")

	mock.ExpectExec(q).
		WithArgs(name, price, uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.Update(context.Background(), 1, &model.UpdateProductRequest{Name: &name, Price: &price})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !found {
		t.Fatal("Update should report the row as found")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
