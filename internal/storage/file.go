// Package storage persists the account as a single versioned JSON
// blob on disk. The blob is the only durable state in the system;
// everything else (quotes, history) is regenerated at runtime.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/pandastrade/papertrade/internal/domain"
)

// blobVersion is bumped whenever the on-disk shape changes. Loading a
// blob with an unknown version fails instead of silently misreading it.
const blobVersion = 1

// accountBlob is the on-disk shape of the account. Holdings and
// watchlist are flat arrays; decimals marshal as strings, which keeps
// the round-trip exact.
type accountBlob struct {
	Version int         `json:"version"`
	Account accountJSON `json:"account"`
}

type accountJSON struct {
	Balance   decimal.Decimal  `json:"balance"`
	Currency  string           `json:"currency"`
	Holdings  []domain.Holding `json:"holdings"`
	Watchlist []string         `json:"watchlist"`
}

// FileStorage stores the account blob at a fixed path, writing through
// a temp file and rename so a crash mid-write never leaves a corrupt
// blob behind.
type FileStorage struct {
	path string
}

// NewFileStorage creates a FileStorage rooted at dir, creating the
// directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStorage{path: filepath.Join(dir, "account.json")}, nil
}

// Save writes the account blob synchronously. A mutation is only
// acknowledged to the caller after Save returns nil.
func (fs *FileStorage) Save(account *domain.Account) error {
	blob := accountBlob{
		Version: blobVersion,
		Account: accountJSON{
			Balance:   account.Balance,
			Currency:  account.Currency,
			Holdings:  account.HoldingList(),
			Watchlist: account.WatchlistSymbols(),
		},
	}

	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), "account-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write account: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace account blob: %w", err)
	}
	return nil
}

// Load reads the account blob. It returns ok == false (and no error)
// when no blob exists yet, which callers treat as a first run.
func (fs *FileStorage) Load() (*domain.Account, bool, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read account blob: %w", err)
	}

	var blob accountBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, false, fmt.Errorf("parse account blob: %w", err)
	}
	if blob.Version != blobVersion {
		return nil, false, fmt.Errorf("unsupported account blob version %d", blob.Version)
	}

	account := &domain.Account{
		Balance:   blob.Account.Balance,
		Currency:  blob.Account.Currency,
		Holdings:  make(map[string]*domain.Holding, len(blob.Account.Holdings)),
		Watchlist: make(map[string]bool, len(blob.Account.Watchlist)),
	}
	for _, h := range blob.Account.Holdings {
		holding := h
		account.Holdings[h.Symbol] = &holding
	}
	for _, symbol := range blob.Account.Watchlist {
		account.Watchlist[symbol] = true
	}
	return account, true, nil
}
