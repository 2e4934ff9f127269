package chain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/catapult/internal/adapters/senders"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// Backend is the node API the client needs. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dialer opens a backend for an RPC URL
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

// DialEthClient connects with ethclient
func DialEthClient(ctx context.Context, rpcURL string) (Backend, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// Client implements usecase.ChainClient with go-ethereum bindings.
// The RPC connection is opened on first use.
type Client struct {
	network   *config.Network
	artifacts usecase.ArtifactRepository
	senders   *senders.Service
	log       *slog.Logger
	dial      Dialer

	mu      sync.Mutex
	backend Backend
	chainID *big.Int
	abis    map[string]*abi.ABI
}

// NewClient creates a chain client for the configured network
func NewClient(cfg *config.RuntimeConfig, artifacts usecase.ArtifactRepository, signers *senders.Service, log *slog.Logger) *Client {
	return &Client{
		network:   cfg.Network,
		artifacts: artifacts,
		senders:   signers,
		log:       log,
		dial:      DialEthClient,
		abis:      make(map[string]*abi.ABI),
	}
}

// NewClientWithBackend creates a chain client bound to an existing backend
func NewClientWithBackend(backend Backend, artifacts usecase.ArtifactRepository, signers *senders.Service, log *slog.Logger) *Client {
	return &Client{
		artifacts: artifacts,
		senders:   signers,
		log:       log,
		backend:   backend,
		abis:      make(map[string]*abi.ABI),
	}
}

// connect returns the backend, dialing the network RPC on first use
func (c *Client) connect(ctx context.Context) (Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend != nil {
		return c.backend, nil
	}
	if c.network == nil {
		return nil, fmt.Errorf("no network selected")
	}

	c.log.Debug("connecting to network", "network", c.network.Name, "rpc", c.network.RPCURL)
	backend, err := c.dial(ctx, c.network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	c.backend = backend
	return backend, nil
}

// chainIDOf queries and checks the chain ID once
func (c *Client) chainIDOf(ctx context.Context, backend Backend) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chainID != nil {
		return c.chainID, nil
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if c.network != nil && c.network.ChainID != 0 && chainID.Uint64() != c.network.ChainID {
		return nil, fmt.Errorf("chain ID mismatch for %s: expected %d, got %d", c.network.Name, c.network.ChainID, chainID.Uint64())
	}
	c.chainID = chainID
	return chainID, nil
}

// contractABI loads and caches the parsed ABI of a unit
func (c *Client) contractABI(ctx context.Context, name string) (*models.Contract, *abi.ABI, error) {
	contract, err := c.artifacts.GetContract(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if parsed, ok := c.abis[name]; ok {
		return contract, parsed, nil
	}

	raw := contract.Artifact.ABI
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("[]")
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, &domain.ArtifactParseError{Path: contract.ArtifactPath, Err: err}
	}
	c.abis[name] = &parsed
	return contract, &parsed, nil
}

// Factory builds a linked factory for name
func (c *Client) Factory(ctx context.Context, name string, links map[string]common.Address) (*models.Factory, error) {
	contract, parsed, err := c.contractABI(ctx, name)
	if err != nil {
		return nil, err
	}

	bytecode, err := LinkBytecode(contract.Artifact, links)
	if err != nil {
		return nil, err
	}

	return &models.Factory{
		Unit:     name,
		ABI:      parsed,
		Bytecode: bytecode,
		Links:    links,
	}, nil
}

// Deploy sends the deployment transaction and waits until it is mined
func (c *Client) Deploy(ctx context.Context, factory *models.Factory, signer string, args []any) (*models.Handle, *models.Receipt, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	chainID, err := c.chainIDOf(ctx, backend)
	if err != nil {
		return nil, nil, err
	}

	opts, err := c.senders.Transactor(signer, chainID)
	if err != nil {
		return nil, nil, err
	}
	opts.Context = ctx

	params, err := CoerceArgs(factory.ABI.Constructor.Inputs, args)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", factory.Unit, err)
	}

	address, tx, bound, err := bind.DeployContract(opts, *factory.ABI, factory.Bytecode, backend, params...)
	if err != nil {
		return nil, nil, &domain.DeploymentTransactionError{Unit: factory.Unit, Err: err}
	}
	c.log.Debug("deployment sent", "unit", factory.Unit, "tx", tx.Hash().Hex(), "address", address.Hex(), "from", opts.From.Hex())

	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, nil, &domain.DeploymentTransactionError{Unit: factory.Unit, TxHash: tx.Hash().Hex(), Err: err}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, nil, &domain.DeploymentTransactionError{
			Unit:   factory.Unit,
			TxHash: tx.Hash().Hex(),
			Err:    errors.New("transaction reverted"),
		}
	}
	if receipt.ContractAddress != (common.Address{}) {
		address = receipt.ContractAddress
	}

	handle := &models.Handle{
		Unit:     factory.Unit,
		Address:  address,
		ABI:      factory.ABI,
		Contract: bound,
	}
	return handle, &models.Receipt{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber,
		GasUsed:     receipt.GasUsed,
	}, nil
}

// Attach binds the ABI of name to address. Units without an artifact (for example
// externally supplied addresses) get a handle without ABI.
func (c *Client) Attach(ctx context.Context, name string, address common.Address) (*models.Handle, error) {
	handle := &models.Handle{Unit: name, Address: address}

	_, parsed, err := c.contractABI(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownUnit) {
			c.log.Debug("attaching without ABI", "unit", name, "address", address.Hex())
			return handle, nil
		}
		return nil, err
	}

	backend, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	handle.ABI = parsed
	handle.Contract = bind.NewBoundContract(address, *parsed, backend, backend, backend)
	return handle, nil
}

// CodeExists reports whether address holds contract code at the latest block
func (c *Client) CodeExists(ctx context.Context, address common.Address) (bool, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return false, err
	}
	code, err := backend.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check code at %s: %w", address.Hex(), err)
	}
	return len(code) > 0, nil
}

var _ usecase.ChainClient = (*Client)(nil)
