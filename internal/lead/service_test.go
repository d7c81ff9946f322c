package lead

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelora/crm-backend/internal/apperror"
	"github.com/travelora/crm-backend/internal/requestctx"
	"github.com/travelora/crm-backend/internal/tenancy"
)

// fakeRepo keeps leads in memory and enforces the same tenant predicate
// the real repository gets from the guard.
type fakeRepo struct {
	mu    sync.Mutex
	leads map[string]*Lead
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: map[string]*Lead{}}
}

func (f *fakeRepo) visible(ctx context.Context, l *Lead) bool {
	tenantID := tenancy.TenantID(ctx)
	return tenantID == "" || tenancy.IsExempt(ctx) || l.TenantID == tenantID
}

func (f *fakeRepo) Create(_ context.Context, l *Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *l
	f.leads[l.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leads[id]
	if !ok || !f.visible(ctx, l) {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Lead
	for _, l := range f.leads {
		if !f.visible(ctx, l) {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leads[id]
	if !ok || !f.visible(ctx, l) {
		return 0, nil
	}
	if s, ok := updates["status"].(string); ok {
		l.Status = s
	}
	return 1, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leads[id]
	if !ok || !f.visible(ctx, l) {
		return 0, nil
	}
	delete(f.leads, id)
	return 1, nil
}

func tenantCtx(tenantID string) context.Context {
	ctx := requestctx.Scope(context.Background())
	requestctx.Update(ctx, requestctx.Context{TenantID: tenantID, UserID: "u1"})
	return ctx
}

func TestCreateAssignsTenantFromScope(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	l, err := svc.Create(tenantCtx("tenant-a"), &Lead{
		Email:    "maria@example.com",
		TenantID: "tenant-b", // caller-supplied owner must be ignored
	})
	require.NoError(t, err)
	assert.Equal(t, "tenant-a", l.TenantID)
	assert.Equal(t, StatusNew, l.Status)
	assert.NotEmpty(t, l.ID)
}

func TestCreateWithoutTenantIsForbidden(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), &Lead{Email: "x@example.com"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestGetAcrossTenantsIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(tenantCtx("tenant-a"), &Lead{Email: "a@example.com"})
	require.NoError(t, err)

	// Same id from another tenant's scope reads as absent.
	_, err = svc.Get(tenantCtx("tenant-b"), created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	got, err := svc.Get(tenantCtx("tenant-a"), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUpdateStripsOwnershipFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(tenantCtx("tenant-a"), &Lead{Email: "a@example.com"})
	require.NoError(t, err)

	updates := map[string]interface{}{
		"status":    StatusContacted,
		"tenant_id": "tenant-b",
		"id":        "other-id",
	}
	got, err := svc.Update(tenantCtx("tenant-a"), created.ID, updates)
	require.NoError(t, err)

	assert.Equal(t, StatusContacted, got.Status)
	assert.Equal(t, "tenant-a", got.TenantID)
	assert.NotContains(t, updates, "tenant_id")
	assert.NotContains(t, updates, "id")
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Update(tenantCtx("tenant-a"), "nope", map[string]interface{}{"status": StatusLost})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteCrossTenantIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(tenantCtx("tenant-a"), &Lead{Email: "a@example.com"})
	require.NoError(t, err)

	err = svc.Delete(tenantCtx("tenant-b"), created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// Still present for its owner.
	_, err = svc.Get(tenantCtx("tenant-a"), created.ID)
	assert.NoError(t, err)
}
