package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"cg-server/internal/domain/apikey"
	"cg-server/internal/domain/billing"
	"cg-server/internal/domain/user"
)

type mockGateway struct {
	customers       int
	checkoutCalls   []string
	lastSuccessURL  string
	lastCancelURL   string
	checkoutURL     string
	createCustomerE error
}

func (m *mockGateway) CreateCustomer(ctx context.Context, email string, userID uint) (string, error) {
	if m.createCustomerE != nil {
		return "", m.createCustomerE
	}
	m.customers++
	return "cus_new", nil
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, customerID, successURL, cancelURL string) (string, error) {
	m.checkoutCalls = append(m.checkoutCalls, customerID)
	m.lastSuccessURL = successURL
	m.lastCancelURL = cancelURL
	return m.checkoutURL, nil
}

func (m *mockGateway) VerifyWebhook(payload []byte, signature string) (*billing.Event, error) {
	return nil, errors.New("not used")
}

type mockUserRepo struct {
	byCustomer map[string]*user.User
	byEmail    map[string]*user.User
	updated    []*user.User
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) { return u, nil }
func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*user.User, error)    { return nil, nil }
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.byEmail[email], nil
}
func (m *mockUserRepo) FindByStripeCustomerID(ctx context.Context, customerID string) (*user.User, error) {
	return m.byCustomer[customerID], nil
}
func (m *mockUserRepo) Update(ctx context.Context, u *user.User) error {
	m.updated = append(m.updated, u)
	return nil
}

type mockKeyRepo struct {
	created []*apikey.Key
}

func (m *mockKeyRepo) CreateRevokingActive(ctx context.Context, key *apikey.Key) (*apikey.Key, error) {
	m.created = append(m.created, key)
	return key, nil
}
func (m *mockKeyRepo) FindActiveByPrefix(ctx context.Context, prefix string) ([]apikey.Key, error) {
	return nil, nil
}
func (m *mockKeyRepo) FindActiveByUser(ctx context.Context, userID uint) (*apikey.Key, error) {
	return nil, nil
}
func (m *mockKeyRepo) RevokeAllForUser(ctx context.Context, userID uint, revokedAt time.Time) error {
	return nil
}
func (m *mockKeyRepo) RevokeAllForCustomer(ctx context.Context, customerID string, revokedAt time.Time) error {
	return nil
}

type mockWebhookRepo struct {
	seen     map[string]bool
	recorded []*billing.WebhookEvent
}

func (m *mockWebhookRepo) Record(ctx context.Context, event *billing.WebhookEvent) (bool, error) {
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	m.recorded = append(m.recorded, event)
	if m.seen[event.EventID] {
		return false, nil
	}
	m.seen[event.EventID] = true
	return true, nil
}

type fixture struct {
	svc      *billing.Service
	gateway  *mockGateway
	users    *mockUserRepo
	keyRepo  *mockKeyRepo
	webhooks *mockWebhookRepo
}

func newFixture() *fixture {
	gateway := &mockGateway{checkoutURL: "https://checkout.stripe.com/c/sess_1"}
	users := &mockUserRepo{byCustomer: map[string]*user.User{}, byEmail: map[string]*user.User{}}
	keyRepo := &mockKeyRepo{}
	webhooks := &mockWebhookRepo{}
	keys := apikey.NewService(keyRepo, apikey.Config{HashRounds: bcrypt.MinCost}, zerolog.Nop())
	return &fixture{
		svc:      billing.NewService(gateway, users, keys, webhooks, zerolog.Nop()),
		gateway:  gateway,
		users:    users,
		keyRepo:  keyRepo,
		webhooks: webhooks,
	}
}

func TestStartCheckout_NewCustomer(t *testing.T) {
	f := newFixture()
	u := &user.User{ID: 1, Email: "a@b.co"}

	url, err := f.svc.StartCheckout(context.Background(), u, "https://acme.io")
	if err != nil {
		t.Fatalf("StartCheckout failed: %v", err)
	}
	if url != "https://checkout.stripe.com/c/sess_1" {
		t.Errorf("url = %q", url)
	}
	if f.gateway.customers != 1 {
		t.Errorf("expected one customer created, got %d", f.gateway.customers)
	}
	if u.StripeCustomerID == nil || *u.StripeCustomerID != "cus_new" {
		t.Error("customer id not attached to the account")
	}
	if len(f.users.updated) != 1 {
		t.Error("account not persisted after customer creation")
	}
	if f.gateway.lastSuccessURL != "https://acme.io/dashboard/?sub=success" {
		t.Errorf("success url = %q", f.gateway.lastSuccessURL)
	}
	if f.gateway.lastCancelURL != "https://acme.io/dashboard/?sub=cancel" {
		t.Errorf("cancel url = %q", f.gateway.lastCancelURL)
	}
}

func TestStartCheckout_ExistingCustomer(t *testing.T) {
	f := newFixture()
	existing := "cus_have"
	u := &user.User{ID: 1, Email: "a@b.co", StripeCustomerID: &existing}

	if _, err := f.svc.StartCheckout(context.Background(), u, "https://acme.io"); err != nil {
		t.Fatalf("StartCheckout failed: %v", err)
	}
	if f.gateway.customers != 0 {
		t.Error("customer recreated for an account that already has one")
	}
	if len(f.gateway.checkoutCalls) != 1 || f.gateway.checkoutCalls[0] != "cus_have" {
		t.Errorf("checkout calls = %v", f.gateway.checkoutCalls)
	}
}

func TestProcessEvent_IssuesKeyByCustomerMatch(t *testing.T) {
	f := newFixture()
	f.users.byCustomer["cus_1"] = &user.User{ID: 5, Email: "x@y.co"}

	issued, err := f.svc.ProcessEvent(context.Background(), &billing.Event{
		ID:         "evt_1",
		Type:       "checkout.session.completed",
		CustomerID: "cus_1",
	})
	if err != nil {
		t.Fatalf("ProcessEvent failed: %v", err)
	}
	if issued == nil {
		t.Fatal("issued key not returned")
	}
	if len(f.keyRepo.created) != 1 {
		t.Fatalf("expected 1 key issued, got %d", len(f.keyRepo.created))
	}
	key := f.keyRepo.created[0]
	if key.UserID == nil || *key.UserID != 5 {
		t.Errorf("key owner = %v", key.UserID)
	}
	if key.Plan != apikey.PlanPro || issued.Plan != apikey.PlanPro {
		t.Errorf("plan = %q", key.Plan)
	}
	if key.CustomerID == nil || *key.CustomerID != "cus_1" {
		t.Errorf("customer id = %v", key.CustomerID)
	}
}

func TestProcessEvent_StampsReceivedAt(t *testing.T) {
	f := newFixture()
	before := time.Now()

	if _, err := f.svc.ProcessEvent(context.Background(), &billing.Event{
		ID:   "evt_stamp",
		Type: "customer.subscription.deleted",
	}); err != nil {
		t.Fatalf("ProcessEvent failed: %v", err)
	}

	if len(f.webhooks.recorded) != 1 {
		t.Fatalf("expected 1 recorded event, got %d", len(f.webhooks.recorded))
	}
	got := f.webhooks.recorded[0].ReceivedAt
	if got.IsZero() {
		t.Fatal("ReceivedAt is the zero time")
	}
	if got.Before(before) || got.After(time.Now()) {
		t.Errorf("ReceivedAt %v outside call window", got)
	}
}

func TestProcessEvent_FallsBackToEmailMatch(t *testing.T) {
	f := newFixture()
	f.users.byEmail["x@y.co"] = &user.User{ID: 8, Email: "x@y.co"}

	issued, err := f.svc.ProcessEvent(context.Background(), &billing.Event{
		ID:            "evt_2",
		Type:          "invoice.payment_succeeded",
		CustomerID:    "cus_unknown",
		CustomerEmail: "X@Y.co",
	})
	if err != nil {
		t.Fatalf("ProcessEvent failed: %v", err)
	}
	if issued == nil {
		t.Fatal("issued key not returned")
	}
	if len(f.keyRepo.created) != 1 || *f.keyRepo.created[0].UserID != 8 {
		t.Errorf("email match did not issue to the right account: %+v", f.keyRepo.created)
	}
}

func TestProcessEvent_DuplicateDeliverySkipped(t *testing.T) {
	f := newFixture()
	f.users.byCustomer["cus_1"] = &user.User{ID: 5, Email: "x@y.co"}
	evt := &billing.Event{ID: "evt_dup", Type: "customer.subscription.created", CustomerID: "cus_1"}

	if _, err := f.svc.ProcessEvent(context.Background(), evt); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	issued, err := f.svc.ProcessEvent(context.Background(), evt)
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if issued != nil {
		t.Error("duplicate delivery reported an issued key")
	}
	if len(f.keyRepo.created) != 1 {
		t.Errorf("duplicate delivery issued a second key: %d", len(f.keyRepo.created))
	}
}

func TestProcessEvent_IgnoredEventType(t *testing.T) {
	f := newFixture()
	f.users.byCustomer["cus_1"] = &user.User{ID: 5, Email: "x@y.co"}

	issued, err := f.svc.ProcessEvent(context.Background(), &billing.Event{
		ID:         "evt_3",
		Type:       "customer.subscription.deleted",
		CustomerID: "cus_1",
	})
	if err != nil {
		t.Fatalf("ProcessEvent failed: %v", err)
	}
	if issued != nil {
		t.Error("non-activation event reported an issued key")
	}
	if len(f.keyRepo.created) != 0 {
		t.Error("non-activation event must not issue a key")
	}
}

func TestProcessEvent_NoOwnerMatch(t *testing.T) {
	f := newFixture()

	issued, err := f.svc.ProcessEvent(context.Background(), &billing.Event{
		ID:            "evt_4",
		Type:          "checkout.session.completed",
		CustomerID:    "cus_missing",
		CustomerEmail: "nobody@nowhere.co",
	})
	if err != nil {
		t.Fatalf("ProcessEvent failed: %v", err)
	}
	if issued != nil {
		t.Error("unmatched event reported an issued key")
	}
	if len(f.keyRepo.created) != 0 {
		t.Error("unmatched event must not issue a key")
	}
}
