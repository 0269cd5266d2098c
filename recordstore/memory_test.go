package recordstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/recordstore"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

func TestMemory_ListPagination(t *testing.T) {
	// GIVEN: Five seeded records
	// WHEN: Listing in pages of two
	// THEN: Pages come back in insertion order with HasMore until drained

	m := recordstore.NewMemory()
	ctx := context.Background()
	for _, id := range []string{"r1", "r2", "r3", "r4", "r5"} {
		m.Seed("punches", id, map[string]recordstore.Value{
			"employee_id": recordstore.Reference("emp-1"),
		})
	}

	page1, err := m.List(ctx, "punches", nil, recordstore.Page{Limit: 2, Offset: 0})
	require.NoError(t, err)
	require.Len(t, page1.Records, 2)
	assert.Equal(t, "r1", page1.Records[0].ID)
	assert.True(t, page1.HasMore)

	page3, err := m.List(ctx, "punches", nil, recordstore.Page{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, page3.Records, 1)
	assert.Equal(t, "r5", page3.Records[0].ID)
	assert.False(t, page3.HasMore)

	empty, err := m.List(ctx, "punches", nil, recordstore.Page{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty.Records)
	assert.False(t, empty.HasMore)
}

func TestMemory_ListFiltered(t *testing.T) {
	m := recordstore.NewMemory()
	ctx := context.Background()
	m.Seed("punches", "p1", map[string]recordstore.Value{"punch_in_time": recordstore.String("2025-11-05")})
	m.Seed("punches", "p2", map[string]recordstore.Value{"punch_in_time": recordstore.String("2025-11-20")})

	result, err := m.List(ctx, "punches", recordstore.Filter{
		"punch_in_time": {Gte: "2025-11-10"},
	}, recordstore.Page{})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "p2", result.Records[0].ID)
}

func TestMemory_CreateAssignsID(t *testing.T) {
	m := recordstore.NewMemory()
	ctx := context.Background()

	rec, err := m.Create(ctx, "departments", map[string]recordstore.Value{
		"name": recordstore.String("Warehouse"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	result, err := m.List(ctx, "departments", nil, recordstore.Page{})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, rec.ID, result.Records[0].ID)
}

func TestMemory_UpdateMerges(t *testing.T) {
	// GIVEN: A record with two fields
	// WHEN: Updating one of them
	// THEN: The other survives the merge

	m := recordstore.NewMemory()
	ctx := context.Background()
	m.Seed("pay_period_templates", "t1", map[string]recordstore.Value{
		"start_day": recordstore.Number(11),
		"is_active": recordstore.Bool(true),
	})

	updated, err := m.Update(ctx, "pay_period_templates", "t1", map[string]recordstore.Value{
		"is_active": recordstore.Bool(false),
	})
	require.NoError(t, err)

	active, _ := updated.Fields["is_active"].AsBool()
	assert.False(t, active)
	start, _ := updated.Fields["start_day"].AsNumber()
	assert.Equal(t, float64(11), start)
}

func TestMemory_UpdateMissingRecord(t *testing.T) {
	m := recordstore.NewMemory()

	_, err := m.Update(context.Background(), "departments", "nope", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, recordstore.ErrRecordNotFound)

	var storeErr *recordstore.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "departments", storeErr.Table)
}

func TestMemory_ListReturnsCopies(t *testing.T) {
	// Mutating a listed record must not leak back into the store.
	m := recordstore.NewMemory()
	ctx := context.Background()
	m.Seed("departments", "d1", map[string]recordstore.Value{"name": recordstore.String("Ops")})

	result, err := m.List(ctx, "departments", nil, recordstore.Page{})
	require.NoError(t, err)
	result.Records[0].Fields["name"] = recordstore.String("Hacked")

	again, err := m.List(ctx, "departments", nil, recordstore.Page{})
	require.NoError(t, err)
	name, _ := again.Records[0].Fields["name"].AsString()
	assert.Equal(t, "Ops", name)
}
