// Package universe owns the screening universe: the Russell 1000
// membership list the engine ranks over. A snapshot of the membership
// ships embedded in the binary; a holdings source can refresh it.
package universe

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/jdlee-quant/rebound/pkg/logger"
)

// Source provides a fresh membership list, typically scraped from the
// index fund's published holdings.
type Source interface {
	FetchHoldings(ctx context.Context) ([]string, error)
}

// tickerPattern accepts standard US symbols plus class shares (BF.A).
var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}(\.[A-Z])?$`)

// Universe holds the current membership list. Safe for concurrent use;
// Refresh swaps the list atomically.
type Universe struct {
	mu      sync.RWMutex
	symbols []string
	source  Source
	log     *logger.Logger
}

// New returns a Universe seeded with the embedded membership snapshot.
// source may be nil, in which case Refresh is a no-op error.
func New(source Source, log *logger.Logger) *Universe {
	return &Universe{
		symbols: append([]string(nil), defaultSymbols...),
		source:  source,
		log:     log,
	}
}

// NewFromSymbols returns a Universe over an explicit membership list,
// normalized. Used for scoped runs and tests.
func NewFromSymbols(symbols []string, source Source, log *logger.Logger) *Universe {
	return &Universe{
		symbols: Normalize(symbols),
		source:  source,
		log:     log,
	}
}

// Symbols returns a copy of the current membership, sorted ascending.
func (u *Universe) Symbols() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]string(nil), u.symbols...)
}

// Size returns the current membership count.
func (u *Universe) Size() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.symbols)
}

// Contains reports whether ticker is in the current membership.
func (u *Universe) Contains(ticker string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	i := sort.SearchStrings(u.symbols, ticker)
	return i < len(u.symbols) && u.symbols[i] == ticker
}

// Refresh replaces the membership with a fresh list from the source.
// The embedded list is kept when the source fails or returns a list too
// small to be a plausible index membership.
func (u *Universe) Refresh(ctx context.Context) error {
	if u.source == nil {
		return fmt.Errorf("no holdings source configured")
	}

	raw, err := u.source.FetchHoldings(ctx)
	if err != nil {
		return fmt.Errorf("fetch holdings: %w", err)
	}

	symbols := Normalize(raw)
	if len(symbols) < 500 {
		return fmt.Errorf("holdings list too small: %d symbols", len(symbols))
	}

	u.mu.Lock()
	prev := len(u.symbols)
	u.symbols = symbols
	u.mu.Unlock()

	u.log.WithFields(map[string]interface{}{
		"previous": prev,
		"current":  len(symbols),
	}).Info("Universe membership refreshed")
	return nil
}

// Normalize uppercases, validates, deduplicates and sorts a raw symbol
// list. Symbols that do not look like US equity tickers are dropped.
func Normalize(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if !tickerPattern.MatchString(sym) {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
