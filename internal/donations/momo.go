package donations

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/greenvolunteer/backend/config"
)

// MomoClient talks to the momo wallet payment gateway. Requests are signed
// with HMAC-SHA256 over an alphabetically ordered key=value string.
type MomoClient struct {
	cfg  config.MomoConfig
	http *http.Client
}

// NewMomoClient creates a gateway client.
func NewMomoClient(cfg config.MomoConfig) *MomoClient {
	return &MomoClient{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IpnURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
	Lang        string `json:"lang"`
}

type momoCreateResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
}

// IPNPayload is the gateway's payment notification callback body.
type IPNPayload struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// CreatePayment requests a redirect pay URL for an order. The orderId is the
// donation ID so the IPN callback can be matched back to the row.
func (m *MomoClient) CreatePayment(ctx context.Context, orderID, orderInfo string, amount int64) (string, error) {
	requestID := orderID
	raw := fmt.Sprintf("accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		m.cfg.AccessKey, amount, "", m.cfg.NotifyURL, orderID, orderInfo,
		m.cfg.PartnerCode, m.cfg.ReturnURL, requestID, "captureWallet")

	req := momoCreateRequest{
		PartnerCode: m.cfg.PartnerCode,
		AccessKey:   m.cfg.AccessKey,
		RequestID:   requestID,
		Amount:      amount,
		OrderID:     orderID,
		OrderInfo:   orderInfo,
		RedirectURL: m.cfg.ReturnURL,
		IpnURL:      m.cfg.NotifyURL,
		ExtraData:   "",
		RequestType: "captureWallet",
		Signature:   m.sign(raw),
		Lang:        "en",
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("momo request: %w", err)
	}
	defer resp.Body.Close()

	var out momoCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("momo response: %w", err)
	}
	if out.ResultCode != 0 || out.PayURL == "" {
		return "", fmt.Errorf("momo rejected payment (code %d): %s", out.ResultCode, out.Message)
	}
	return out.PayURL, nil
}

// VerifyIPN checks the HMAC signature on a payment notification.
func (m *MomoClient) VerifyIPN(p IPNPayload) bool {
	raw := fmt.Sprintf("accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		m.cfg.AccessKey, p.Amount, p.ExtraData, p.Message, p.OrderID, p.OrderInfo, p.OrderType,
		p.PartnerCode, p.PayType, p.RequestID, p.ResponseTime, p.ResultCode, p.TransID)
	expected := m.sign(raw)
	return hmac.Equal([]byte(expected), []byte(p.Signature))
}

func (m *MomoClient) sign(raw string) string {
	mac := hmac.New(sha256.New, []byte(m.cfg.SecretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}
