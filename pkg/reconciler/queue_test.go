package reconciler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestQueueFifoAndDedupe(t *testing.T) {
	q := NewReconcileQueue[int64]()
	assert.True(t, q.Add(3))
	assert.True(t, q.Add(1))
	assert.False(t, q.Add(3))
	assert.True(t, q.Add(2))

	items := q.Pop(2)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, int64(1), items[1].ID)

	// a running id is handed out again only after its callback runs
	assert.True(t, q.Add(3))
	assert.Equal(t, 1, q.Len())
	items[0].Callback(errors.New("failed"))
	items[0].Callback(nil)
	assert.False(t, q.Add(3))

	items = q.Pop(5)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)
	assert.Equal(t, int64(3), items[1].ID)
}

func TestQueueAddWhileRunningRequeuesAfterCallback(t *testing.T) {
	q := NewReconcileQueue[int64]()
	assert.True(t, q.Add(5))
	items := q.Pop(1)
	assert.Len(t, items, 1)

	assert.True(t, q.Add(5))
	assert.False(t, q.Add(5))
	assert.Equal(t, 0, q.Len())
	assert.True(t, q.Contains(5))

	items[0].Callback(nil)
	assert.Equal(t, 1, q.Len())
	items = q.Pop(1)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].ID)

	// no pending re-add, so the id leaves the queue
	items[0].Callback(nil)
	assert.Equal(t, 0, q.Len())
	assert.False(t, q.Contains(5))
}

func TestQueueCloseDropsRequeue(t *testing.T) {
	q := NewReconcileQueue[int64]()
	q.Add(9)
	items := q.Pop(1)
	assert.True(t, q.Add(9))
	q.Close()
	items[0].Callback(nil)
	assert.Equal(t, 0, q.Len())
}

func TestQueueCloseReleasesPop(t *testing.T) {
	q := NewReconcileQueue[string]()
	done := make(chan []ReconcileItem[string])
	go func() {
		done <- q.Pop(1)
	}()
	q.Close()
	q.Close()
	assert.Empty(t, <-done)
	assert.Empty(t, q.Pop(1))
}

func TestQueueNeverHandsOutDuplicates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		q := NewReconcileQueue[int64]()
		ids := rapid.SliceOf(rapid.Int64Range(0, 10)).Draw(t, "ids")
		distinct := map[int64]bool{}
		for _, id := range ids {
			added := q.Add(id)
			if added == distinct[id] {
				t.Fatalf("Add(%d) returned %v", id, added)
			}
			distinct[id] = true
		}
		if len(distinct) == 0 {
			return
		}
		seen := map[int64]bool{}
		for q.Len() > 0 {
			for _, item := range q.Pop(3) {
				if seen[item.ID] {
					t.Fatalf("id %d handed out twice", item.ID)
				}
				seen[item.ID] = true
			}
		}
		if len(seen) != len(distinct) {
			t.Fatalf("expected %d ids, got %d", len(distinct), len(seen))
		}
	})
}
