//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package dbreg is a small explicit registry of loaded subcircuit
// databases, replacing the original's DBSingleton (a process-wide
// getInstance() with a hard abort on a missing entry). A *Registry is
// constructed once in cmd/circopt, and the CircuitDB it returns is
// passed to each rewrite pass instead of reached for through a global.
package dbreg

import (
	"sync"

	"github.com/markkurossi/circopt/db"
	"github.com/markkurossi/circopt/gate"
	"github.com/markkurossi/circopt/xlog"
)

// Registry holds at most one loaded CircuitDB per basis.
type Registry struct {
	mu  sync.RWMutex
	dbs map[gate.Basis]*db.CircuitDB
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		dbs: make(map[gate.Basis]*db.CircuitDB),
	}
}

// Load reads the database at path for basis and stores it in the
// registry, replacing any database previously loaded for that basis.
func (r *Registry) Load(basis gate.Basis, path string, logger *xlog.Logger) error {
	loaded, err := db.Load(path, basis, logger)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.dbs[basis] = loaded
	r.mu.Unlock()
	return nil
}

// Get returns the database registered for basis, and whether one has
// been loaded.
func (r *Registry) Get(basis gate.Basis) (*db.CircuitDB, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dbs[basis]
	return d, ok
}
