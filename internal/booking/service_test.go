package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelora/crm-backend/internal/apperror"
	"github.com/travelora/crm-backend/internal/customer"
	"github.com/travelora/crm-backend/internal/requestctx"
	"github.com/travelora/crm-backend/internal/tenancy"
	"github.com/travelora/crm-backend/internal/travelpackage"
)

type fakeRepo struct {
	bookings map[string]*Booking
}

func (f *fakeRepo) Create(_ context.Context, b *Booking) error {
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok || b.TenantID != tenancy.TenantID(ctx) {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) List(context.Context, string, *time.Time, *time.Time) ([]Booking, error) {
	return nil, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	b, ok := f.bookings[id]
	if !ok || b.TenantID != tenancy.TenantID(ctx) {
		return 0, nil
	}
	if s, ok := updates["status"].(string); ok {
		b.Status = s
	}
	return 1, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (int64, error) {
	b, ok := f.bookings[id]
	if !ok || b.TenantID != tenancy.TenantID(ctx) {
		return 0, nil
	}
	delete(f.bookings, id)
	return 1, nil
}

type fakeCustomerRepo struct {
	customers map[string]*customer.Customer
	recorded  float64
}

func (f *fakeCustomerRepo) Create(context.Context, *customer.Customer) error { return nil }
func (f *fakeCustomerRepo) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.TenantID != tenancy.TenantID(ctx) {
		return nil, nil
	}
	return c, nil
}
func (f *fakeCustomerRepo) List(context.Context) ([]customer.Customer, error) { return nil, nil }
func (f *fakeCustomerRepo) Update(context.Context, string, map[string]interface{}) (int64, error) {
	return 0, nil
}
func (f *fakeCustomerRepo) Delete(context.Context, string) (int64, error) { return 0, nil }
func (f *fakeCustomerRepo) RecordBooking(_ context.Context, _ string, amount float64, _ time.Time) error {
	f.recorded += amount
	return nil
}

type fakePackageRepo struct {
	packages map[string]*travelpackage.TravelPackage
}

func (f *fakePackageRepo) Create(context.Context, *travelpackage.TravelPackage) error { return nil }
func (f *fakePackageRepo) FindByID(ctx context.Context, id string) (*travelpackage.TravelPackage, error) {
	p, ok := f.packages[id]
	if !ok || p.TenantID != tenancy.TenantID(ctx) {
		return nil, nil
	}
	return p, nil
}
func (f *fakePackageRepo) List(context.Context, string) ([]travelpackage.TravelPackage, error) {
	return nil, nil
}
func (f *fakePackageRepo) Update(context.Context, string, map[string]interface{}) (int64, error) {
	return 0, nil
}
func (f *fakePackageRepo) Delete(context.Context, string) (int64, error) { return 0, nil }

func tenantCtx(tenantID string) context.Context {
	ctx := requestctx.Scope(context.Background())
	requestctx.Update(ctx, requestctx.Context{TenantID: tenantID, UserID: "u1"})
	return ctx
}

func fixture() (Service, *fakeRepo, *fakeCustomerRepo) {
	repo := &fakeRepo{bookings: map[string]*Booking{}}
	customers := &fakeCustomerRepo{customers: map[string]*customer.Customer{
		"cust-1": {ID: "cust-1", TenantID: "tenant-a"},
	}}
	packages := &fakePackageRepo{packages: map[string]*travelpackage.TravelPackage{
		"pkg-1": {ID: "pkg-1", TenantID: "tenant-a", Name: "Bali Escape", BasePrice: 1200},
	}}
	return NewService(repo, customers, packages), repo, customers
}

func TestCreateComputesTotalAndRecordsSpend(t *testing.T) {
	svc, _, customers := fixture()

	b, err := svc.Create(tenantCtx("tenant-a"), &Booking{
		CustomerID: "cust-1",
		PackageID:  "pkg-1",
		TravelDate: time.Now().Add(30 * 24 * time.Hour),
		PaxCount:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, 2400.0, b.TotalAmount)
	assert.Equal(t, "tenant-a", b.TenantID)
	assert.Equal(t, 2400.0, customers.recorded)
}

func TestCreateRejectsCrossTenantReferences(t *testing.T) {
	svc, _, _ := fixture()

	// cust-1 and pkg-1 belong to tenant-a; tenant-b cannot book them.
	_, err := svc.Create(tenantCtx("tenant-b"), &Booking{
		CustomerID: "cust-1",
		PackageID:  "pkg-1",
		TravelDate: time.Now().Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateWithoutTenantIsForbidden(t *testing.T) {
	svc, _, _ := fixture()

	_, err := svc.Create(context.Background(), &Booking{
		CustomerID: "cust-1",
		PackageID:  "pkg-1",
		TravelDate: time.Now(),
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestUpdateStatusValidatesTransitionTarget(t *testing.T) {
	svc, _, _ := fixture()
	ctx := tenantCtx("tenant-a")

	b, err := svc.Create(ctx, &Booking{
		CustomerID: "cust-1",
		PackageID:  "pkg-1",
		TravelDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, b.ID, "teleported")
	assert.ErrorIs(t, err, apperror.ErrInvalidPayload)

	got, err := svc.UpdateStatus(ctx, b.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
}

func TestUpdateStatusCrossTenantIsNotFound(t *testing.T) {
	svc, _, _ := fixture()

	b, err := svc.Create(tenantCtx("tenant-a"), &Booking{
		CustomerID: "cust-1",
		PackageID:  "pkg-1",
		TravelDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(tenantCtx("tenant-b"), b.ID, StatusCancelled)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
