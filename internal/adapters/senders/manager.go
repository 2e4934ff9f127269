package senders

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// Service resolves named senders to signing keys
type Service struct {
	configs map[string]config.SenderConfig
	mu      sync.Mutex
	keys    map[string]*ecdsa.PrivateKey
}

// NewService creates a sender service from the configured senders
func NewService(cfg *config.RuntimeConfig) *Service {
	configs := cfg.Senders
	if configs == nil {
		configs = make(map[string]config.SenderConfig)
	}
	return &Service{
		configs: configs,
		keys:    make(map[string]*ecdsa.PrivateKey),
	}
}

// Names returns the configured sender names in sorted order
func (s *Service) Names() []string {
	names := lo.Keys(s.configs)
	sort.Strings(names)
	return names
}

// resolveName maps "" to the default sender and matches names case-insensitively
func (s *Service) resolveName(name string) (string, error) {
	if name == "" {
		return s.defaultSender()
	}
	if _, ok := s.configs[name]; ok {
		return name, nil
	}

	nameLower := strings.ToLower(name)
	for key := range s.configs {
		if strings.ToLower(key) == nameLower {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %q (configured: %s)", domain.ErrUnknownSender, name, strings.Join(s.Names(), ", "))
}

func (s *Service) defaultSender() (string, error) {
	if _, ok := s.configs[config.DefaultSender]; ok {
		return config.DefaultSender, nil
	}
	// a single configured sender is the default
	if len(s.configs) == 1 {
		return s.Names()[0], nil
	}
	return "", fmt.Errorf("%w: no [senders.%s] configured", domain.ErrUnknownSender, config.DefaultSender)
}

// Key returns the private key of a sender
func (s *Service) Key(name string) (*ecdsa.PrivateKey, error) {
	resolved, err := s.resolveName(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if key, ok := s.keys[resolved]; ok {
		return key, nil
	}

	raw := strings.TrimPrefix(strings.TrimSpace(s.configs[resolved].PrivateKey), "0x")
	if raw == "" {
		return nil, fmt.Errorf("sender %s has no private_key", resolved)
	}
	key, err := crypto.HexToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid private key for sender %s: %w", resolved, err)
	}
	s.keys[resolved] = key
	return key, nil
}

// Address returns the account address of a sender
func (s *Service) Address(name string) (common.Address, error) {
	key, err := s.Key(name)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// Transactor returns transaction options signing as the sender on chainID
func (s *Service) Transactor(name string, chainID *big.Int) (*bind.TransactOpts, error) {
	key, err := s.Key(name)
	if err != nil {
		return nil, err
	}
	return bind.NewKeyedTransactorWithChainID(key, chainID)
}
