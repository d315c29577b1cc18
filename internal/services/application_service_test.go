package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/justsurfingit/jobtrack/internal/dtos"
)

func TestApplicationService_List(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewApplicationService(db)
	userID, appID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE user_id = .+ AND current_stage = .+ILIKE.+ORDER BY created_at DESC`).
		WithArgs(userID.String(), "applied", "%acme%", "%acme%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "company_name", "position", "career_type", "merit_tags", "current_stage"}).
			AddRow(appID.String(), userID.String(), "Acme", "Engineer", "new", "{go,sql}", "applied"))

	apps, err := svc.List(context.Background(), userID, dtos.ApplicationListQuery{Stage: "applied", Search: " acme "})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(apps) != 1 || apps[0].ID != appID || len(apps[0].MeritTags) != 2 {
		t.Errorf("List() = %+v", apps)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Mock expectations were not met: %v", err)
	}
}

type fakeRemover struct{ keys []string }

func (f *fakeRemover) RemoveObjects(ctx context.Context, keys []string) {
	f.keys = append(f.keys, keys...)
}

func TestApplicationService_Delete(t *testing.T) {
	t.Run("removes the application, its rows and stored documents", func(t *testing.T) {
		db, mock := newMockDB(t)
		remover := &fakeRemover{}
		svc := &ApplicationService{DB: db, Objects: remover}
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "storage_path" FROM "documents" WHERE application_id = `).
			WillReturnRows(sqlmock.NewRows([]string{"storage_path"}).AddRow("u/a/1-cv.pdf"))
		mock.ExpectExec(`DELETE FROM "applications" WHERE`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "documents" WHERE application_id = `).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "events" WHERE application_id = `).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		if err := svc.Delete(context.Background(), id, uuid.New()); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if len(remover.keys) != 1 || remover.keys[0] != "u/a/1-cv.pdf" {
			t.Errorf("removed objects = %v", remover.keys)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Mock expectations were not met: %v", err)
		}
	})

	t.Run("someone else's application is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		remover := &fakeRemover{}
		svc := &ApplicationService{DB: db, Objects: remover}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "storage_path" FROM "documents"`).
			WillReturnRows(sqlmock.NewRows([]string{"storage_path"}).AddRow("other/a/1-cv.pdf"))
		mock.ExpectExec(`DELETE FROM "applications" WHERE`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		if err := svc.Delete(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Delete() error = %v, want ErrNotFound", err)
		}
		if len(remover.keys) != 0 {
			t.Errorf("removed objects of an application that was not deleted: %v", remover.keys)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Mock expectations were not met: %v", err)
		}
	})
}

func TestApplicationService_CreateForUnregisteredUser(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewApplicationService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "applications"`).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint \"fk_applications_user\""})
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), uuid.New(), &dtos.ApplicationCreateRequest{
		CompanyName: "Acme", Position: "Engineer", CareerType: "new",
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Create() error = %v, want ErrUnauthorized", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Mock expectations were not met: %v", err)
	}
}

func TestApplicationService_Count(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewApplicationService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "applications"`).WillReturnError(errors.New("connection refused"))

	_, err := svc.Count(context.Background())
	var dae *DataAccessError
	if !errors.As(err, &dae) {
		t.Fatalf("Count() error = %v, want *DataAccessError", err)
	}
}

func TestEventService_CreateRequiresOwnership(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewEventService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "applications" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), &dtos.EventCreateRequest{
		EventType:   "interview",
		ScheduledAt: time.Date(2024, 1, 10, 1, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Create() error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Mock expectations were not met: %v", err)
	}
}

func TestApplicationUpdates(t *testing.T) {
	name, stage := "  Acme Corp ", "interview"
	fields := applicationUpdates(&dtos.ApplicationUpdateRequest{CompanyName: &name, CurrentStage: &stage})

	if len(fields) != 2 {
		t.Fatalf("fields = %v, want two entries", fields)
	}
	if fields["company_name"] != "Acme Corp" || fields["current_stage"] != "interview" {
		t.Errorf("fields = %v", fields)
	}
}
