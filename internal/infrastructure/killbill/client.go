// Package killbill is the HTTP client for the remote billing instance.
package killbill

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/config"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const apiPrefix = "/1.0/kb"

type HTTPClient struct {
	baseURL    string
	username   string
	password   string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg config.RemoteConfig) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // opt-in per tenant
		},
		MaxIdleConnsPerHost: 10,
	}

	c := &HTTPClient{
		baseURL:   cfg.ServerURL + apiPrefix,
		username:  cfg.Username,
		password:  cfg.Password,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

var _ application.RemoteClient = (*HTTPClient)(nil)

func (c *HTTPClient) GetAccountByKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemoteAccount, error) {
	q := url.Values{"externalKey": {externalKey}}
	acct, err := sendRequest[any, domain.RemoteAccount](c, ctx, http.MethodGet, c.url("/accounts", q), nil, opts)
	if isNotFound(err) {
		return nil, notFound("account", externalKey, err)
	}
	return acct, err
}

func (c *HTTPClient) CreateAccount(ctx context.Context, account domain.RemoteAccount, opts domain.RequestOptions) (*domain.RemoteAccount, error) {
	body := accountRequest{
		ExternalKey: account.ExternalKey,
		Name:        account.Name,
		Email:       account.Email,
		Currency:    account.Currency,
		Country:     account.Country,
		Locale:      account.Locale,
	}
	return sendRequest[accountRequest, domain.RemoteAccount](c, ctx, http.MethodPost, c.url("/accounts", nil), &body, opts)
}

func (c *HTTPClient) GetPaymentMethodByKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemotePaymentMethod, error) {
	q := url.Values{"externalKey": {externalKey}, "withPluginInfo": {"true"}}
	pm, err := sendRequest[any, domain.RemotePaymentMethod](c, ctx, http.MethodGet, c.url("/paymentMethods", q), nil, opts)
	if isNotFound(err) {
		return nil, notFound("payment method", externalKey, err)
	}
	return pm, err
}

func (c *HTTPClient) GetPaymentByExternalKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	q := url.Values{"externalKey": {externalKey}, "withPluginInfo": {"true"}}
	p, err := sendRequest[any, domain.RemotePayment](c, ctx, http.MethodGet, c.url("/payments", q), nil, opts)
	if isNotFound(err) {
		return nil, notFound("payment", externalKey, err)
	}
	return p, err
}

func (c *HTTPClient) CreatePayment(ctx context.Context, accountID uuid.UUID, paymentMethodID uuid.NullUUID, txn domain.TransactionRequest, submit application.SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	q := submitQuery(submit)
	if paymentMethodID.Valid {
		q.Set("paymentMethodId", paymentMethodID.UUID.String())
	}
	path := fmt.Sprintf("/accounts/%s/payments", accountID)
	return sendRequest[domain.TransactionRequest, domain.RemotePayment](c, ctx, http.MethodPost, c.url(path, q), &txn, opts)
}

func (c *HTTPClient) CapturePayment(ctx context.Context, txn domain.TransactionRequest, submit application.SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	path := "/payments"
	if txn.PaymentID.Valid {
		path = fmt.Sprintf("/payments/%s", txn.PaymentID.UUID)
	}
	return sendRequest[domain.TransactionRequest, domain.RemotePayment](c, ctx, http.MethodPost, c.url(path, submitQuery(submit)), &txn, opts)
}

func (c *HTTPClient) RefundPayment(ctx context.Context, txn domain.TransactionRequest, submit application.SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	path := "/payments/refunds"
	if txn.PaymentID.Valid {
		path = fmt.Sprintf("/payments/%s/refunds", txn.PaymentID.UUID)
	}
	return sendRequest[domain.TransactionRequest, domain.RemotePayment](c, ctx, http.MethodPost, c.url(path, submitQuery(submit)), &txn, opts)
}

func (c *HTTPClient) VoidPayment(ctx context.Context, txn domain.TransactionRequest, submit application.SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	path := "/payments"
	if txn.PaymentID.Valid {
		path = fmt.Sprintf("/payments/%s", txn.PaymentID.UUID)
	}
	if _, err := sendRequest[domain.TransactionRequest, struct{}](c, ctx, http.MethodDelete, c.url(path, submitQuery(submit)), &txn, opts); err != nil {
		return nil, err
	}
	// The void endpoint answers without a body; read the payment back.
	return c.GetPaymentByExternalKey(ctx, txn.PaymentExternalKey, opts)
}

func (c *HTTPClient) GetPaymentMethodsForAccount(ctx context.Context, accountID uuid.UUID, properties map[string]string, opts domain.RequestOptions) ([]domain.RemotePaymentMethod, error) {
	q := propertyQuery(properties)
	q.Set("withPluginInfo", "true")
	path := fmt.Sprintf("/accounts/%s/paymentMethods", accountID)
	pms, err := sendRequest[any, []domain.RemotePaymentMethod](c, ctx, http.MethodGet, c.url(path, q), nil, opts)
	if err != nil {
		return nil, err
	}
	return *pms, nil
}

func (c *HTTPClient) SetDefaultPaymentMethod(ctx context.Context, accountID, paymentMethodID uuid.UUID, opts domain.RequestOptions) error {
	path := fmt.Sprintf("/accounts/%s/paymentMethods/%s/setDefault", accountID, paymentMethodID)
	_, err := sendRequest[any, struct{}](c, ctx, http.MethodPut, c.url(path, nil), nil, opts)
	return err
}

func (c *HTTPClient) DeletePaymentMethod(ctx context.Context, paymentMethodID uuid.UUID, opts domain.RequestOptions) error {
	q := url.Values{
		"deleteDefaultPmWithAutoPayOff": {"true"},
		"forceDefaultPmDeletion":        {"true"},
	}
	path := fmt.Sprintf("/paymentMethods/%s", paymentMethodID)
	_, err := sendRequest[any, struct{}](c, ctx, http.MethodDelete, c.url(path, q), nil, opts)
	return err
}

func (c *HTTPClient) ListAccounts(ctx context.Context, offset, limit int, opts domain.RequestOptions) ([]domain.RemoteAccount, error) {
	q := url.Values{"offset": {strconv.Itoa(offset)}, "limit": {strconv.Itoa(limit)}}
	accts, err := sendRequest[any, []domain.RemoteAccount](c, ctx, http.MethodGet, c.url("/accounts/pagination", q), nil, opts)
	if err != nil {
		return nil, err
	}
	return *accts, nil
}

func (c *HTTPClient) url(path string, q url.Values) string {
	if len(q) == 0 {
		return c.baseURL + path
	}
	return c.baseURL + path + "?" + q.Encode()
}

func submitQuery(submit application.SubmitOptions) url.Values {
	q := propertyQuery(submit.Properties)
	for _, name := range submit.ControlPlugins {
		q.Add("controlPluginName", name)
	}
	return q
}

func propertyQuery(properties map[string]string) url.Values {
	q := url.Values{}
	for k, v := range properties {
		q.Add("pluginProperty", k+"="+v)
	}
	return q
}

func notFound(kind, key string, cause error) *domain.DomainError {
	err := domain.NewEntityNotFoundError(kind, key)
	err.Err = cause
	return err
}

func (c *HTTPClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *HTTPClient) decorate(req *http.Request, opts domain.RequestOptions) {
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Killbill-ApiKey", c.apiKey)
	req.Header.Set("X-Killbill-ApiSecret", c.apiSecret)
	if opts.CreatedBy != "" {
		req.Header.Set("X-Killbill-CreatedBy", opts.CreatedBy)
	}
	if opts.Reason != "" {
		req.Header.Set("X-Killbill-Reason", opts.Reason)
	}
	if opts.Comment != "" {
		req.Header.Set("X-Killbill-Comment", opts.Comment)
	}
	if opts.RequestID != "" {
		req.Header.Set("X-Request-Id", opts.RequestID)
	}
}

func sendRequest[Req any, Resp any](c *HTTPClient, ctx context.Context, method, url string, reqBody *Req, opts domain.RequestOptions) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	c.decorate(httpReq, opts)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if len(body) > 0 {
			if err := json.Unmarshal(body, &errResp); err != nil {
				errResp.Message = string(body)
			}
		}
		return nil, newRemoteError(resp.StatusCode, errResp)
	}

	// Creation endpoints answer 201 with a Location to read the entity from.
	// A relative Location is resolved against the URL that was called.
	if resp.StatusCode == http.StatusCreated {
		if location := resp.Header.Get("Location"); location != "" {
			target, err := resp.Request.URL.Parse(location)
			if err != nil {
				return nil, fmt.Errorf("invalid location %q: %w", location, err)
			}
			return sendRequest[any, Resp](c, ctx, http.MethodGet, target.String(), nil, opts)
		}
	}

	var out Resp
	if resp.StatusCode == http.StatusNoContent {
		return &out, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &out, nil
}

type accountRequest struct {
	ExternalKey string `json:"externalKey"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Country     string `json:"country,omitempty"`
	Locale      string `json:"locale,omitempty"`
}
