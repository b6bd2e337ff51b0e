// Package runstore persists run reports in a SQL database.
package runstore

import (
	"sync"

	"github.com/rusalad/rusalad/internal/contract"
)

// RunStoreManager holds the configured RunStore.
type RunStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &RunStoreManager{} // Compile-time check

// GetRunStore returns the configured RunStore, or nil before InitStores.
func (mgr *RunStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
