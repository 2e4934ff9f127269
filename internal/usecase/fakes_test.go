package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// deployCall is one transaction observed by fakeChain
type deployCall struct {
	Unit    string
	Signer  string
	Args    []any
	Links   map[string]common.Address
	Address common.Address
}

// fakeChain deploys to sequential addresses and enforces library bindings
type fakeChain struct {
	requires map[string][]string // unit -> libraries its bytecode needs
	failOn   map[string]error
	codeless map[common.Address]bool

	next     int64
	block    int64
	deployed []deployCall
	attached []string
}

func newFakeChain(requires map[string][]string) *fakeChain {
	if requires == nil {
		requires = map[string][]string{}
	}
	return &fakeChain{requires: requires, failOn: map[string]error{}, codeless: map[common.Address]bool{}, block: 10}
}

func (c *fakeChain) Factory(ctx context.Context, name string, links map[string]common.Address) (*models.Factory, error) {
	for _, lib := range c.requires[name] {
		if _, ok := links[lib]; !ok {
			return nil, fmt.Errorf("%s needs %s: %w", name, lib, domain.ErrMissingLibrary)
		}
	}
	return &models.Factory{Unit: name, Links: links}, nil
}

func (c *fakeChain) Deploy(ctx context.Context, factory *models.Factory, signer string, args []any) (*models.Handle, *models.Receipt, error) {
	if err, ok := c.failOn[factory.Unit]; ok {
		return nil, nil, &domain.DeploymentTransactionError{Unit: factory.Unit, Err: err}
	}
	c.next++
	c.block++
	addr := common.BigToAddress(big.NewInt(0x1000 + c.next))
	c.deployed = append(c.deployed, deployCall{
		Unit:    factory.Unit,
		Signer:  signer,
		Args:    args,
		Links:   factory.Links,
		Address: addr,
	})
	return &models.Handle{Unit: factory.Unit, Address: addr},
		&models.Receipt{BlockNumber: big.NewInt(c.block)}, nil
}

func (c *fakeChain) Attach(ctx context.Context, name string, address common.Address) (*models.Handle, error) {
	c.attached = append(c.attached, name)
	return &models.Handle{Unit: name, Address: address}, nil
}

func (c *fakeChain) CodeExists(ctx context.Context, address common.Address) (bool, error) {
	return !c.codeless[address], nil
}

func (c *fakeChain) units() []string {
	out := make([]string, len(c.deployed))
	for i, d := range c.deployed {
		out[i] = d.Unit
	}
	return out
}

func (c *fakeChain) call(unit string) (deployCall, bool) {
	for _, d := range c.deployed {
		if d.Unit == unit {
			return d, true
		}
	}
	return deployCall{}, false
}

// staticResolver returns a fixed link reference map
type staticResolver struct {
	links domain.LinkReferences
	err   error
	roots []string
}

func (r *staticResolver) Resolve(root string) (domain.LinkReferences, error) {
	r.roots = append(r.roots, root)
	if r.links == nil {
		return domain.LinkReferences{}, r.err
	}
	return r.links, r.err
}

// memoryLedgers keeps saved ledgers in memory
type memoryLedgers struct {
	saved   map[string]map[string]models.Record
	loadErr error
	saveErr error
	saves   int
}

func newMemoryLedgers() *memoryLedgers {
	return &memoryLedgers{saved: map[string]map[string]models.Record{}}
}

func (m *memoryLedgers) Load(ctx context.Context, network string) (*domain.Ledger, error) {
	l := domain.NewLedger(network)
	if m.loadErr != nil {
		return l, m.loadErr
	}
	for name, rec := range m.saved[network] {
		l.Put(name, rec)
	}
	return l, nil
}

func (m *memoryLedgers) Save(ctx context.Context, l *domain.Ledger) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[l.Network()] = l.Records()
	return nil
}

func (m *memoryLedgers) seed(network string, recs ...models.Record) {
	if m.saved[network] == nil {
		m.saved[network] = map[string]models.Record{}
	}
	for _, r := range recs {
		m.saved[network][r.Header().Name] = r
	}
}

// recordingHooks remembers hook invocations
type recordingHooks struct {
	events    []string
	beforeErr error
}

func (h *recordingHooks) BeforeDeploy(ctx context.Context, name string, factory *models.Factory, args []any) error {
	h.events = append(h.events, "before:"+name)
	return h.beforeErr
}

func (h *recordingHooks) AfterDeploy(ctx context.Context, name string, handle *models.Handle, args []any) error {
	h.events = append(h.events, "after:"+name)
	return nil
}

// MockConfirmer is a mock implementation of BroadcastConfirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) ConfirmBroadcast(ctx context.Context, network string, summary string) (bool, error) {
	args := m.Called(ctx, network, summary)
	return args.Bool(0), args.Error(1)
}

// MockSelector is a mock implementation of RecordSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectRecords(ctx context.Context, records []models.Record) ([]string, error) {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func plain(name string, addr common.Address, block uint64) models.PlainRecord {
	return models.PlainRecord{RecordHeader: models.RecordHeader{Name: name, Address: addr}, DeployedAt: block}
}
