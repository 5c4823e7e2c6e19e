package cloudsync

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pixeltrader/internal/models"
	"pixeltrader/pkg/integrations/memdoc"
	"pixeltrader/pkg/types/remote"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type fakeLocal struct {
	mu       sync.Mutex
	assets   []models.Asset
	replaced int
}

func (l *fakeLocal) GetAllAssets() ([]models.Asset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Asset(nil), l.assets...), nil
}

func (l *fakeLocal) ReplaceAssets(assets []models.Asset) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.assets = assets
	l.replaced++
	return nil
}

func (l *fakeLocal) set(assets ...models.Asset) {
	l.mu.Lock()
	l.assets = assets
	l.mu.Unlock()
}

func (l *fakeLocal) replacements() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replaced
}

func (l *fakeLocal) symbols() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.assets))
	for _, a := range l.assets {
		out = append(out, a.Symbol)
	}
	return out
}

func btc() models.Asset {
	return models.Asset{
		ID:     "btc-1",
		Symbol: "BTC",
		Transactions: []models.Transaction{{
			ID:     "tx-1",
			Type:   models.TransactionBuy,
			Price:  decimal.NewFromInt(70000),
			Amount: decimal.RequireFromString("0.1"),
			Date:   "2024-01-01",
		}},
	}
}

func eth() models.Asset {
	return models.Asset{ID: "eth-1", Symbol: "ETH", Transactions: []models.Transaction{}}
}

func doc(version int64, origin string, assets ...models.Asset) remote.Document {
	raw, err := EncodeAssets(assets)
	if err != nil {
		panic(err)
	}
	return remote.Document{Assets: raw, Version: version, Origin: origin, LastUpdated: time.Now()}
}

type BridgeSuite struct {
	suite.Suite
	store  *memdoc.Store
	local  *fakeLocal
	bridge *Bridge
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *BridgeSuite) SetupTest() {
	s.store = memdoc.New()
	s.local = &fakeLocal{}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	b, err := New(
		WithRemote(s.store),
		WithLocal(s.local),
		WithDebounce(20*time.Millisecond),
		WithOrigin("device-a"),
	)
	s.Require().NoError(err)
	s.bridge = b
}

func (s *BridgeSuite) TearDownTest() {
	s.bridge.Close()
	s.cancel()
}

func (s *BridgeSuite) start() {
	s.Require().NoError(s.bridge.Start(s.ctx))
}

func (s *BridgeSuite) TestStartAppliesNewerRemote() {
	s.Require().NoError(s.store.Put(s.ctx, doc(3, "device-b", btc())))
	s.start()

	s.Equal([]string{"BTC"}, s.local.symbols())
	s.EqualValues(3, s.bridge.Status().Version)
	s.False(s.bridge.Status().LastPull.IsZero())
}

func (s *BridgeSuite) TestStartWithEmptyRemote() {
	s.local.set(btc())
	s.start()

	s.Equal(0, s.local.replacements())
	s.EqualValues(0, s.bridge.Status().Version)
}

func (s *BridgeSuite) TestDebouncedBurstSavesOnce() {
	s.start()
	s.local.set(btc())

	for i := 0; i < 5; i++ {
		s.bridge.NotifyLocalChange()
	}
	s.True(s.bridge.Status().Pending)

	s.Eventually(func() bool { return s.store.Saves() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	s.Equal(1, s.store.Saves())

	status := s.bridge.Status()
	s.EqualValues(1, status.Version)
	s.False(status.Pending)

	saved, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal("device-a", saved.Origin)
	s.EqualValues(1, saved.Version)
}

func (s *BridgeSuite) TestOwnEchoIsSkipped() {
	s.start()
	s.local.set(btc())
	s.Require().NoError(s.bridge.Push(s.ctx))

	// the echo is queued on the watcher; give it time to arrive
	time.Sleep(50 * time.Millisecond)
	s.Equal(0, s.local.replacements())
	s.Equal(1, s.store.Saves())
}

func (s *BridgeSuite) TestStaleDocumentIsSkipped() {
	s.Require().NoError(s.store.Put(s.ctx, doc(3, "device-b", btc())))
	s.start()

	s.Require().NoError(s.store.Put(s.ctx, doc(2, "device-b", eth())))
	time.Sleep(50 * time.Millisecond)

	s.Equal([]string{"BTC"}, s.local.symbols())
	s.EqualValues(3, s.bridge.Status().Version)
}

func (s *BridgeSuite) TestNewerDivergentDocumentIsApplied() {
	s.start()
	s.local.set(btc())

	s.Require().NoError(s.store.Put(s.ctx, doc(5, "device-b", btc(), eth())))
	s.Eventually(func() bool { return len(s.local.symbols()) == 2 }, time.Second, 5*time.Millisecond)
	s.EqualValues(5, s.bridge.Status().Version)

	// applying does not write back
	time.Sleep(50 * time.Millisecond)
	s.Equal(1, s.store.Saves())

	// the next local edit builds on the applied version
	s.Require().NoError(s.bridge.Push(s.ctx))
	saved, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(6, saved.Version)
}

func (s *BridgeSuite) TestOnApplyRunsOnlyWhenAssetsChange() {
	var applied atomic.Int32
	b, err := New(
		WithRemote(s.store),
		WithLocal(s.local),
		WithOrigin("device-c"),
		WithOnApply(func() { applied.Add(1) }),
	)
	s.Require().NoError(err)
	s.local.set(btc())
	s.Require().NoError(b.Start(s.ctx))
	defer b.Close()

	// same content at a newer version: nothing to reload
	s.Require().NoError(s.store.Put(s.ctx, doc(2, "device-b", btc())))
	s.Eventually(func() bool { return b.Status().Version == 2 }, time.Second, 5*time.Millisecond)
	s.EqualValues(0, applied.Load())

	s.Require().NoError(s.store.Put(s.ctx, doc(3, "device-b", btc(), eth())))
	s.Eventually(func() bool { return applied.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Len(s.local.symbols(), 2)

	// stale documents never trigger it
	s.Require().NoError(s.store.Put(s.ctx, doc(1, "device-b", eth())))
	time.Sleep(50 * time.Millisecond)
	s.EqualValues(1, applied.Load())
}

func (s *BridgeSuite) TestNewerIdenticalDocumentOnlyAdvancesVersion() {
	s.local.set(btc())
	s.start()

	s.Require().NoError(s.store.Put(s.ctx, doc(4, "device-b", btc())))
	s.Eventually(func() bool { return s.bridge.Status().Version == 4 }, time.Second, 5*time.Millisecond)
	s.Equal(0, s.local.replacements())
}

func (s *BridgeSuite) TestSameVersionFromOtherOriginWins() {
	s.start()
	s.local.set(btc())
	s.Require().NoError(s.bridge.Push(s.ctx))

	s.Require().NoError(s.store.Put(s.ctx, doc(1, "device-b", eth())))
	s.Eventually(func() bool {
		syms := s.local.symbols()
		return len(syms) == 1 && syms[0] == "ETH"
	}, time.Second, 5*time.Millisecond)
}

func (s *BridgeSuite) TestRemoteWinsOverPendingLocalEdit() {
	b, err := New(WithRemote(s.store), WithLocal(s.local), WithDebounce(time.Hour), WithOrigin("device-c"))
	s.Require().NoError(err)
	s.Require().NoError(b.Start(s.ctx))
	defer b.Close()

	b.NotifyLocalChange()
	s.True(b.Status().Pending)

	s.Require().NoError(s.store.Put(s.ctx, doc(2, "device-b", eth())))
	s.Eventually(func() bool { return !b.Status().Pending }, time.Second, 5*time.Millisecond)
	s.Equal([]string{"ETH"}, s.local.symbols())
}

func (s *BridgeSuite) TestSaveFailureIsRecorded() {
	s.start()
	s.local.set(btc())

	s.store.FailNext(memdoc.ErrSaveRejected)
	err := s.bridge.Push(s.ctx)
	s.Require().ErrorIs(err, memdoc.ErrSaveRejected)

	status := s.bridge.Status()
	s.EqualValues(0, status.Version)
	s.Contains(status.LastError, "save rejected")
	s.Equal([]string{"BTC"}, s.local.symbols())

	s.Require().NoError(s.bridge.Push(s.ctx))
	status = s.bridge.Status()
	s.EqualValues(1, status.Version)
	s.Empty(status.LastError)
}

func (s *BridgeSuite) TestPushBeforeStart() {
	s.ErrorIs(s.bridge.Push(s.ctx), ErrNotStarted)
	s.bridge.NotifyLocalChange()
	s.False(s.bridge.Status().Pending)
}

func TestBridgeSuite(t *testing.T) {
	suite.Run(t, new(BridgeSuite))
}

func TestNew_Validation(t *testing.T) {
	store := memdoc.New()
	local := &fakeLocal{}

	tests := []struct {
		name string
		opts []Option
	}{
		{"missing remote", []Option{WithLocal(local)}},
		{"missing local", []Option{WithRemote(store)}},
		{"negative debounce", []Option{WithRemote(store), WithLocal(local), WithDebounce(-time.Second)}},
		{"empty origin", []Option{WithRemote(store), WithLocal(local), WithOrigin("")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if !errors.Is(err, ErrInvalidBridgeConfig) {
				t.Fatalf("want ErrInvalidBridgeConfig, got %v", err)
			}
		})
	}
}
