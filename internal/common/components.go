package common

const (
	ComponentSource     = "source"
	ComponentSyncState  = "sync-state"
	ComponentDispatcher = "dispatcher"
	ComponentStore      = "store"
	ComponentWatch      = "watch-registry"
	ComponentAPI        = "api"
)

var AllComponents = map[string]struct{}{
	ComponentSource:     {},
	ComponentSyncState:  {},
	ComponentDispatcher: {},
	ComponentStore:      {},
	ComponentWatch:      {},
	ComponentAPI:        {},
}
