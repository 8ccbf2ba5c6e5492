package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/database/testutil"
	"github.com/medigrid/ambudispatch/internal/models"
	apperrors "github.com/medigrid/ambudispatch/pkg/errors"
)

func createWithPriority(t *testing.T, svc *DispatchService, db *gorm.DB, customer models.User, priority string, createdAt time.Time) models.AmbulanceRequest {
	t.Helper()

	input := validCreateInput()
	input.Priority = priority
	created, err := svc.CreateRequest(context.Background(), actorFor(customer), input)
	require.NoError(t, err)

	// Pin the creation time so ordering assertions are deterministic.
	require.NoError(t, db.Model(&models.AmbulanceRequest{}).
		Where("id = ?", created.ID).
		Update("created_at", createdAt).Error)
	created.CreatedAt = createdAt
	return *created
}

func TestListRequestsPriorityOrdering(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc := newDispatchService(t, db)
	customer := seedUser(t, db, models.RoleCustomer, "Ada", "ada@example.com")
	staff := seedUser(t, db, models.RoleStaff, "Ben", "ben@example.com")

	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	critical := createWithPriority(t, svc, db, customer, "critical", base)
	normal := createWithPriority(t, svc, db, customer, "normal", base.Add(time.Hour))
	high := createWithPriority(t, svc, db, customer, "high", base.Add(2*time.Hour))

	rows, err := svc.ListRequests(context.Background(), actorFor(staff), false)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, critical.ID, rows[0].ID)
	require.Equal(t, high.ID, rows[1].ID)
	require.Equal(t, normal.ID, rows[2].ID)
}

func TestListRequestsTieBreakNewestFirst(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc := newDispatchService(t, db)
	customer := seedUser(t, db, models.RoleCustomer, "Ada", "ada@example.com")
	admin := seedUser(t, db, models.RoleAdmin, "Dana", "dana@example.com")

	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	older := createWithPriority(t, svc, db, customer, "high", base)
	newer := createWithPriority(t, svc, db, customer, "high", base.Add(time.Minute))

	rows, err := svc.ListRequests(context.Background(), actorFor(admin), false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, newer.ID, rows[0].ID)
	require.Equal(t, older.ID, rows[1].ID)
}

func TestListRequestsUnreadFilterAndJoins(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc := newDispatchService(t, db)
	customer := seedUser(t, db, models.RoleCustomer, "Ada", "ada@example.com")
	staff := seedUser(t, db, models.RoleStaff, "Ben", "ben@example.com")
	admin := seedUser(t, db, models.RoleAdmin, "Dana", "dana@example.com")
	hospitalUser, hospital := seedHospital(t, db, "County General")

	first, err := svc.CreateRequest(context.Background(), actorFor(customer), validCreateInput())
	require.NoError(t, err)
	second, err := svc.CreateRequest(context.Background(), actorFor(customer), validCreateInput())
	require.NoError(t, err)

	require.NoError(t, svc.AssignSelf(context.Background(), actorFor(staff), first.ID))
	require.NoError(t, svc.ForwardToHospital(context.Background(), actorFor(admin), first.ID, hospitalUser.ID))
	require.NoError(t, svc.MarkRead(context.Background(), actorFor(admin), second.ID))

	unread, err := svc.ListRequests(context.Background(), actorFor(admin), true)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	row := unread[0]
	require.Equal(t, first.ID, row.ID)
	require.NotNil(t, row.PatientName)
	require.Equal(t, "Ada", *row.PatientName)
	require.NotNil(t, row.StaffName)
	require.Equal(t, "Ben", *row.StaffName)
	require.NotNil(t, row.HospitalName)
	require.Equal(t, hospital.Name, *row.HospitalName)
	require.NotNil(t, row.ForwardedToHospitalID)
	require.Equal(t, hospitalUser.ID, *row.ForwardedToHospitalID)

	// Customers cannot use the dispatch queue listing.
	_, err = svc.ListRequests(context.Background(), actorFor(customer), false)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestListOwnRequestsFiltersOwnership(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc := newDispatchService(t, db)
	mine := seedUser(t, db, models.RoleCustomer, "Ada", "ada@example.com")
	other := seedUser(t, db, models.RoleCustomer, "Eve", "eve@example.com")

	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	first := createWithPriority(t, svc, db, mine, "", base)
	second := createWithPriority(t, svc, db, mine, "", base.Add(time.Hour))
	createWithPriority(t, svc, db, other, "", base.Add(2*time.Hour))

	rows, err := svc.ListOwnRequests(context.Background(), actorFor(mine))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, second.ID, rows[0].ID)
	require.Equal(t, first.ID, rows[1].ID)
	for _, row := range rows {
		require.Equal(t, mine.ID, row.CustomerUserID)
	}

	_, err = svc.ListOwnRequests(context.Background(), models.Actor{UserID: "s", Role: models.RoleStaff})
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestListForwardedRequests(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc := newDispatchService(t, db)
	customer := seedUser(t, db, models.RoleCustomer, "Ada", "ada@example.com")
	admin := seedUser(t, db, models.RoleAdmin, "Dana", "dana@example.com")
	hospitalUser, _ := seedHospital(t, db, "County General")
	otherHospitalUser, _ := seedHospital(t, db, "Riverside")

	forwarded, err := svc.CreateRequest(context.Background(), actorFor(customer), validCreateInput())
	require.NoError(t, err)
	_, err = svc.CreateRequest(context.Background(), actorFor(customer), validCreateInput())
	require.NoError(t, err)

	require.NoError(t, svc.ForwardToHospital(context.Background(), actorFor(admin), forwarded.ID, hospitalUser.ID))

	rows, err := svc.ListForwardedRequests(context.Background(), actorFor(hospitalUser))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, forwarded.ID, rows[0].ID)

	empty, err := svc.ListForwardedRequests(context.Background(), actorFor(otherHospitalUser))
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = svc.ListForwardedRequests(context.Background(), actorFor(admin))
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestDetectListColumnsReducedSchema(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	require.Equal(t, extendedColumns, detectListColumns(db))

	// Simulate an older deployment missing the signup-coordinate migration.
	require.NoError(t, db.Migrator().DropColumn(&models.User{}, "latitude"))
	require.Equal(t, reducedColumns, detectListColumns(db))
}

func TestListRequestsReducedProjection(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	customer := seedUser(t, db, models.RoleCustomer, "Ada", "ada@example.com")
	staff := seedUser(t, db, models.RoleStaff, "Ben", "ben@example.com")

	require.NoError(t, db.Migrator().DropColumn(&models.User{}, "latitude"))

	svc := newDispatchService(t, db)
	require.Equal(t, reducedColumns, svc.columns)

	_, err := svc.CreateRequest(context.Background(), actorFor(customer), validCreateInput())
	require.NoError(t, err)

	rows, err := svc.ListRequests(context.Background(), actorFor(staff), false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].PatientName)
	require.Nil(t, rows[0].PatientLatitude)
	require.Nil(t, rows[0].HospitalName)
	require.Nil(t, rows[0].ForwardedToHospitalID)
}
