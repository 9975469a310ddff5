package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/gateway/payment"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/repository"
)

// In-memory stores with the same compare-and-set semantics as the SQL
// repositories: terminal transitions succeed for exactly one caller.

type fakeWalletStore struct {
	mu          sync.Mutex
	wallets     map[string]*entity.Wallet
	byAuthor    map[string]string
	supports    *fakeSupportStore
	withdrawals *fakeWithdrawalStore
	settleErr   error
	creditCalls int
	refundCalls int
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{
		wallets:  make(map[string]*entity.Wallet),
		byAuthor: make(map[string]string),
	}
}

func (s *fakeWalletStore) add(w *entity.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[w.ID] = w
	s.byAuthor[w.AuthorID] = w.ID
}

func (s *fakeWalletStore) get(id string) entity.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.wallets[id]
}

func (s *fakeWalletStore) FindByID(ctx context.Context, id string) (*entity.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (s *fakeWalletStore) FindByAuthorID(ctx context.Context, authorID string) (*entity.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byAuthor[authorID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s.wallets[id]
	return &cp, nil
}

func (s *fakeWalletStore) FindOrCreate(ctx context.Context, authorID string) (*entity.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byAuthor[authorID]; ok {
		cp := *s.wallets[id]
		return &cp, nil
	}
	w := &entity.Wallet{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Status:    entity.WalletStatusActive,
		CreatedAt: time.Now(),
	}
	s.wallets[w.ID] = w
	s.byAuthor[authorID] = w.ID
	cp := *w
	return &cp, nil
}

// SettleSupportCompletion mirrors the SQL transaction: an injected error
// means the whole thing rolled back, so neither the status nor the
// balance moves.
func (s *fakeWalletStore) SettleSupportCompletion(ctx context.Context, tx *entity.SupportTransaction) (bool, error) {
	if s.settleErr != nil {
		return false, s.settleErr
	}
	ok, err := s.supports.complete(tx.ID)
	if err != nil || !ok {
		return ok, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, found := s.wallets[tx.WalletID]
	if !found {
		return false, repository.ErrNotFound
	}
	w.CurrentBalance += tx.NetAmount
	w.AvailableBalance += tx.NetAmount
	w.TotalReceived += tx.NetAmount
	w.PlatformFeeTotal += tx.PlatformFee
	w.SupportersCount++
	w.TransactionsCount++
	s.creditCalls++
	return true, nil
}

func (s *fakeWalletStore) SettleWithdrawalFailure(ctx context.Context, w *entity.WithdrawalRequest, reason string) (bool, error) {
	if s.settleErr != nil {
		return false, s.settleErr
	}
	ok, err := s.withdrawals.fail(w.ID, reason)
	if err != nil || !ok {
		return ok, err
	}
	return true, s.RefundFailedWithdrawal(ctx, w.WalletID, w.Amount)
}

func (s *fakeWalletStore) ReserveForWithdrawal(ctx context.Context, walletID string, amount, dailyLimit int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return false, nil
	}
	now := time.Now()
	daily := w.DailyWithdrawnAmount
	if w.LastWithdrawalDate == nil || !sameDay(*w.LastWithdrawalDate, now) {
		daily = 0
	}
	if w.Status != entity.WalletStatusActive || w.AvailableBalance < amount || daily+amount > dailyLimit {
		return false, nil
	}
	w.DailyWithdrawnAmount = daily + amount
	w.LastWithdrawalDate = &now
	w.CurrentBalance -= amount
	w.AvailableBalance -= amount
	w.TotalWithdrawn += amount
	return true, nil
}

func (s *fakeWalletStore) RefundFailedWithdrawal(ctx context.Context, walletID string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return repository.ErrNotFound
	}
	w.CurrentBalance += amount
	w.AvailableBalance += amount
	w.TotalWithdrawn -= amount
	s.refundCalls++
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type fakeSupportStore struct {
	mu  sync.Mutex
	txs map[string]*entity.SupportTransaction
}

func newFakeSupportStore() *fakeSupportStore {
	return &fakeSupportStore{txs: make(map[string]*entity.SupportTransaction)}
}

func (s *fakeSupportStore) get(id string) entity.SupportTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.txs[id]
}

func (s *fakeSupportStore) Insert(ctx context.Context, tx *entity.SupportTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tx
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.txs[cp.ID] = &cp
	return nil
}

func (s *fakeSupportStore) FindByID(ctx context.Context, id string) (*entity.SupportTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (s *fakeSupportStore) SetTracking(ctx context.Context, id, trackingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx, ok := s.txs[id]; ok {
		tx.TrackingID = trackingID
	}
	return nil
}

func (s *fakeSupportStore) MarkProcessing(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok || tx.Status != entity.StatusPending {
		return false, nil
	}
	tx.Status = entity.StatusProcessing
	return true, nil
}

// complete backs fakeWalletStore.SettleSupportCompletion with the same
// terminal compare-and-set the SQL carries.
func (s *fakeSupportStore) complete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok || entity.IsTerminalStatus(tx.Status) {
		return false, nil
	}
	now := time.Now()
	tx.Status = entity.StatusCompleted
	tx.CompletedAt = &now
	return true, nil
}

func (s *fakeSupportStore) Fail(ctx context.Context, id, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok || entity.IsTerminalStatus(tx.Status) {
		return false, nil
	}
	now := time.Now()
	tx.Status = entity.StatusFailed
	tx.FailedReason = reason
	tx.CompletedAt = &now
	return true, nil
}

func (s *fakeSupportStore) ListRecentByWallet(ctx context.Context, walletID string, limit int) ([]entity.SupportTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.SupportTransaction
	for _, tx := range s.txs {
		if tx.WalletID == walletID && len(out) < limit {
			out = append(out, *tx)
		}
	}
	return out, nil
}

type fakeWithdrawalStore struct {
	mu sync.Mutex
	ws map[string]*entity.WithdrawalRequest
}

func newFakeWithdrawalStore() *fakeWithdrawalStore {
	return &fakeWithdrawalStore{ws: make(map[string]*entity.WithdrawalRequest)}
}

func (s *fakeWithdrawalStore) get(id string) entity.WithdrawalRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.ws[id]
}

func (s *fakeWithdrawalStore) Insert(ctx context.Context, w *entity.WithdrawalRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *w
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.ws[cp.ID] = &cp
	return nil
}

func (s *fakeWithdrawalStore) FindByID(ctx context.Context, id string) (*entity.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.ws[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (s *fakeWithdrawalStore) MarkProcessing(ctx context.Context, id, trackingID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.ws[id]
	if !ok || w.Status != entity.StatusPending {
		return false, nil
	}
	w.Status = entity.StatusProcessing
	w.TrackingID = trackingID
	return true, nil
}

func (s *fakeWithdrawalStore) Complete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.ws[id]
	if !ok || entity.IsTerminalStatus(w.Status) {
		return false, nil
	}
	now := time.Now()
	w.Status = entity.StatusCompleted
	w.CompletedAt = &now
	return true, nil
}

// fail backs fakeWalletStore.SettleWithdrawalFailure.
func (s *fakeWithdrawalStore) fail(id, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.ws[id]
	if !ok || entity.IsTerminalStatus(w.Status) {
		return false, nil
	}
	now := time.Now()
	w.Status = entity.StatusFailed
	w.FailedReason = reason
	w.CompletedAt = &now
	return true, nil
}

func (s *fakeWithdrawalStore) ListRecentByWallet(ctx context.Context, walletID string, limit int) ([]entity.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.WithdrawalRequest
	for _, w := range s.ws {
		if w.WalletID == walletID && len(out) < limit {
			out = append(out, *w)
		}
	}
	return out, nil
}

type fakeGateway struct {
	mu sync.Mutex

	pushErr     error
	checkoutErr error
	payoutErr   error
	statusErr   error
	statusRes   *payment.StatusResponse

	pushCalls     []payment.CollectionPushRequest
	checkoutCalls []payment.CollectionCheckoutRequest
	mobileCalls   []payment.MobilePayoutRequest
	businessCalls []payment.BusinessPayoutRequest
	bankCalls     []payment.BankPayoutRequest
	statusCalls   []string
}

func (g *fakeGateway) InitiateCollectionPush(ctx context.Context, req payment.CollectionPushRequest) (*payment.CollectionResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pushCalls = append(g.pushCalls, req)
	if g.pushErr != nil {
		return nil, g.pushErr
	}
	return &payment.CollectionResponse{TrackingID: "trk-push-1", State: payment.StatePending}, nil
}

func (g *fakeGateway) InitiateCollectionCheckout(ctx context.Context, req payment.CollectionCheckoutRequest) (*payment.CheckoutResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checkoutCalls = append(g.checkoutCalls, req)
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	return &payment.CheckoutResponse{TrackingID: "trk-checkout-1", URL: "https://checkout.example/c/1"}, nil
}

func (g *fakeGateway) InitiatePayoutMobile(ctx context.Context, req payment.MobilePayoutRequest) (*payment.PayoutResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mobileCalls = append(g.mobileCalls, req)
	if g.payoutErr != nil {
		return nil, g.payoutErr
	}
	return &payment.PayoutResponse{TrackingID: "trk-payout-1", State: payment.StatePending}, nil
}

func (g *fakeGateway) InitiatePayoutBusiness(ctx context.Context, req payment.BusinessPayoutRequest) (*payment.PayoutResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.businessCalls = append(g.businessCalls, req)
	if g.payoutErr != nil {
		return nil, g.payoutErr
	}
	return &payment.PayoutResponse{TrackingID: "trk-payout-1", State: payment.StatePending}, nil
}

func (g *fakeGateway) InitiatePayoutBank(ctx context.Context, req payment.BankPayoutRequest) (*payment.PayoutResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bankCalls = append(g.bankCalls, req)
	if g.payoutErr != nil {
		return nil, g.payoutErr
	}
	return &payment.PayoutResponse{TrackingID: "trk-payout-1", State: payment.StatePending}, nil
}

func (g *fakeGateway) QueryStatus(ctx context.Context, trackingID string) (*payment.StatusResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusCalls = append(g.statusCalls, trackingID)
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	if g.statusRes != nil {
		return g.statusRes, nil
	}
	return &payment.StatusResponse{TrackingID: trackingID, State: payment.StatePending}, nil
}

type fakeNotifier struct {
	mu               sync.Mutex
	supportEvents    []*model.SupportReceivedEvent
	withdrawalEvents []*model.WithdrawalSettledEvent
}

func (n *fakeNotifier) SendSupportReceived(event *model.SupportReceivedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.supportEvents = append(n.supportEvents, event)
	return nil
}

func (n *fakeNotifier) SendWithdrawalSettled(event *model.WithdrawalSettledEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.withdrawalEvents = append(n.withdrawalEvents, event)
	return nil
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []string
}

func (s *fakeScheduler) Schedule(ctx context.Context, kind, id string, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, kind+"-"+id)
	return nil
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scheduled)
}
