package reconciler

import "context"

// Reconciler drives items of type T towards their desired state.
//
// Reboot runs once when the manager is created, before any worker starts. Resync runs on
// every tick and adds the keys that need work to the queue. Reconcile gets batches of at
// most RunMaxItems keys and must call each item's Callback once it is done with it.
type Reconciler[T Key] interface {
	Name() string
	Reboot(ctx context.Context)
	Resync(ctx context.Context, queue *ReconcileQueue[T])
	Reconcile(ctx context.Context, items []ReconcileItem[T])
}
