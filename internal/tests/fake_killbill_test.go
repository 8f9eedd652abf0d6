package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
)

// fakeKillBill is an in-memory remote instance serving the endpoints the
// bridge calls.
type fakeKillBill struct {
	mu       sync.Mutex
	accounts map[string]domain.RemoteAccount
	payments map[string]*domain.RemotePayment
	// status applied to every new transaction
	status string
	// submissions records the query of every payment operation
	submissions []map[string][]string
	createdBy   []string
}

func newFakeKillBill(t *testing.T) (*fakeKillBill, *httptest.Server) {
	t.Helper()
	kb := &fakeKillBill{
		accounts: make(map[string]domain.RemoteAccount),
		payments: make(map[string]*domain.RemotePayment),
		status:   "SUCCESS",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /1.0/kb/accounts", kb.getAccount)
	mux.HandleFunc("POST /1.0/kb/accounts", kb.createAccount)
	mux.HandleFunc("GET /1.0/kb/accounts/pagination", kb.listAccounts)
	mux.HandleFunc("GET /1.0/kb/accounts/{id}", kb.getAccountByID)
	mux.HandleFunc("POST /1.0/kb/accounts/{id}/payments", kb.createPayment)
	mux.HandleFunc("GET /1.0/kb/payments", kb.getPayment)
	mux.HandleFunc("GET /1.0/kb/payments/{id}", kb.getPaymentByID)
	mux.HandleFunc("POST /1.0/kb/payments/{id}", kb.capture)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return kb, srv
}

func (kb *fakeKillBill) setStatus(status string) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.status = status
}

func (kb *fakeKillBill) payment(externalKey string) *domain.RemotePayment {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.payments[externalKey]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, map[string]any{"code": 3003, "message": what + " not found"})
}

func created(w http.ResponseWriter, r *http.Request, path string) {
	w.Header().Set("Location", "http://"+r.Host+path)
	w.WriteHeader(http.StatusCreated)
}

func (kb *fakeKillBill) getAccount(w http.ResponseWriter, r *http.Request) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	acct, ok := kb.accounts[r.URL.Query().Get("externalKey")]
	if !ok {
		notFound(w, "account")
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (kb *fakeKillBill) getAccountByID(w http.ResponseWriter, r *http.Request) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	for _, acct := range kb.accounts {
		if acct.AccountID.String() == r.PathValue("id") {
			writeJSON(w, http.StatusOK, acct)
			return
		}
	}
	notFound(w, "account")
}

func (kb *fakeKillBill) createAccount(w http.ResponseWriter, r *http.Request) {
	var acct domain.RemoteAccount
	if err := json.NewDecoder(r.Body).Decode(&acct); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}
	acct.AccountID = uuid.New()

	kb.mu.Lock()
	kb.accounts[acct.ExternalKey] = acct
	kb.createdBy = append(kb.createdBy, r.Header.Get("X-Killbill-CreatedBy"))
	kb.mu.Unlock()

	created(w, r, "/1.0/kb/accounts/"+acct.AccountID.String())
}

func (kb *fakeKillBill) listAccounts(w http.ResponseWriter, r *http.Request) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	out := make([]domain.RemoteAccount, 0, len(kb.accounts))
	for _, a := range kb.accounts {
		out = append(out, a)
	}
	writeJSON(w, http.StatusOK, out)
}

func (kb *fakeKillBill) newTransaction(req domain.TransactionRequest, paymentID uuid.UUID) domain.RemoteTransaction {
	return domain.RemoteTransaction{
		TransactionID:          uuid.New(),
		TransactionExternalKey: req.TransactionExternalKey,
		PaymentID:              paymentID,
		PaymentExternalKey:     req.PaymentExternalKey,
		TransactionType:        string(req.TransactionType),
		Amount:                 req.Amount.Decimal,
		Currency:               req.Currency,
		EffectiveDate:          time.Now().UTC(),
		Status:                 kb.status,
	}
}

func (kb *fakeKillBill) createPayment(w http.ResponseWriter, r *http.Request) {
	var req domain.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}
	accountID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		notFound(w, "account")
		return
	}

	kb.mu.Lock()
	kb.submissions = append(kb.submissions, r.URL.Query())
	p, ok := kb.payments[req.PaymentExternalKey]
	if !ok {
		p = &domain.RemotePayment{
			PaymentID:          uuid.New(),
			AccountID:          accountID,
			PaymentExternalKey: req.PaymentExternalKey,
			Currency:           req.Currency,
		}
		kb.payments[req.PaymentExternalKey] = p
	}
	p.Transactions = append(p.Transactions, kb.newTransaction(req, p.PaymentID))
	kb.mu.Unlock()

	created(w, r, "/1.0/kb/payments/"+p.PaymentID.String())
}

func (kb *fakeKillBill) capture(w http.ResponseWriter, r *http.Request) {
	var req domain.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}

	kb.mu.Lock()
	kb.submissions = append(kb.submissions, r.URL.Query())
	var target *domain.RemotePayment
	for _, p := range kb.payments {
		if p.PaymentID.String() == r.PathValue("id") {
			target = p
		}
	}
	if target == nil {
		kb.mu.Unlock()
		notFound(w, "payment")
		return
	}
	target.Transactions = append(target.Transactions, kb.newTransaction(req, target.PaymentID))
	kb.mu.Unlock()

	created(w, r, "/1.0/kb/payments/"+target.PaymentID.String())
}

func (kb *fakeKillBill) getPayment(w http.ResponseWriter, r *http.Request) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	p, ok := kb.payments[r.URL.Query().Get("externalKey")]
	if !ok {
		notFound(w, "payment")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (kb *fakeKillBill) getPaymentByID(w http.ResponseWriter, r *http.Request) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	for _, p := range kb.payments {
		if p.PaymentID.String() == r.PathValue("id") {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	notFound(w, "payment")
}
