package domain

import (
	"sort"

	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// LinkReferences maps a contract name to the library names it must be linked
// against, in discovery order. Contracts without references are absent.
type LinkReferences map[string][]string

// Ledger is the set of deployment records for one network. It is owned by a
// single deployer for the duration of a run and is not safe for concurrent use.
type Ledger struct {
	network string
	records map[string]models.Record
}

// NewLedger creates an empty ledger for a network
func NewLedger(network string) *Ledger {
	return &Ledger{
		network: network,
		records: make(map[string]models.Record),
	}
}

// Network returns the network the ledger belongs to
func (l *Ledger) Network() string {
	return l.network
}

// Get returns the record stored under name
func (l *Ledger) Get(name string) (models.Record, error) {
	rec, ok := l.records[name]
	if !ok {
		return nil, NotDeployedError(name)
	}
	return rec, nil
}

// Put stores a record under name, replacing any previous record
func (l *Ledger) Put(name string, rec models.Record) {
	l.records[name] = rec
}

// Contains reports whether a record exists under name
func (l *Ledger) Contains(name string) bool {
	_, ok := l.records[name]
	return ok
}

// Remove drops the record stored under name
func (l *Ledger) Remove(name string) bool {
	if _, ok := l.records[name]; !ok {
		return false
	}
	delete(l.records, name)
	return true
}

// Len returns the number of records
func (l *Ledger) Len() int {
	return len(l.records)
}

// Names returns all record names in sorted order
func (l *Ledger) Names() []string {
	names := make([]string, 0, len(l.records))
	for name := range l.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Records returns a copy of the name -> record mapping
func (l *Ledger) Records() map[string]models.Record {
	out := make(map[string]models.Record, len(l.records))
	for name, rec := range l.records {
		out[name] = rec
	}
	return out
}

// List returns all records sorted by name
func (l *Ledger) List() []models.Record {
	out := make([]models.Record, 0, len(l.records))
	for _, name := range l.Names() {
		out = append(out, l.records[name])
	}
	return out
}
