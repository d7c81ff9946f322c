package requestctx

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentOutsideScope(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, Context{}, Current(ctx))
	// Update outside a scope must be a silent no-op, not an error.
	Update(ctx, Context{TenantID: "t1", UserID: "u1"})
	assert.Equal(t, Context{}, Current(ctx))
}

func TestReadAfterWriteWithinScope(t *testing.T) {
	ctx := Scope(context.Background())

	assert.Equal(t, Context{}, Current(ctx), "fresh scope starts empty")

	Update(ctx, Context{TenantID: "tenant-a"})
	Update(ctx, Context{UserID: "user-1"})

	got := Current(ctx)
	assert.Equal(t, "tenant-a", got.TenantID)
	assert.Equal(t, "user-1", got.UserID)
}

func TestPartialUpdateKeepsExistingFields(t *testing.T) {
	ctx := Scope(context.Background())
	Update(ctx, Context{TenantID: "tenant-a", UserID: "user-1"})
	Update(ctx, Context{UserID: "user-2"})

	got := Current(ctx)
	assert.Equal(t, "tenant-a", got.TenantID)
	assert.Equal(t, "user-2", got.UserID)
}

func TestScopeVisibleFromSpawnedGoroutines(t *testing.T) {
	ctx := Scope(context.Background())
	Update(ctx, Context{TenantID: "tenant-a", UserID: "user-1"})

	done := make(chan Context, 1)
	go func() { done <- Current(ctx) }()

	got := <-done
	assert.Equal(t, "tenant-a", got.TenantID)
}

// Concurrent requests each derive their own scope; arbitrary
// interleaving must never let one request observe another's tenant.
func TestConcurrentScopesDoNotLeak(t *testing.T) {
	const requests = 100

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tenant := fmt.Sprintf("tenant-%d", i)
			user := fmt.Sprintf("user-%d", i)

			ctx := Scope(context.Background())
			Update(ctx, Context{TenantID: tenant})
			Update(ctx, Context{UserID: user})

			// Re-read several times to interleave with other goroutines.
			for j := 0; j < 50; j++ {
				got := Current(ctx)
				require.Equal(t, tenant, got.TenantID)
				require.Equal(t, user, got.UserID)
			}
		}(i)
	}
	wg.Wait()
}

func TestRunScoped(t *testing.T) {
	var inside Context
	RunScoped(context.Background(), Context{TenantID: "t1", UserID: "u1"}, func(ctx context.Context) {
		inside = Current(ctx)
	})
	assert.Equal(t, Context{TenantID: "t1", UserID: "u1"}, inside)
}

func TestNestedScopesAreIndependent(t *testing.T) {
	outer := Scope(context.Background())
	Update(outer, Context{TenantID: "outer"})

	inner := Scope(outer)
	assert.Equal(t, Context{}, Current(inner), "nested scope starts empty")

	Update(inner, Context{TenantID: "inner"})
	assert.Equal(t, "inner", Current(inner).TenantID)
	assert.Equal(t, "outer", Current(outer).TenantID, "inner writes stay invisible outside")
}
