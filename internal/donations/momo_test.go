package donations

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenvolunteer/backend/config"
)

func testMomoConfig(endpoint string) config.MomoConfig {
	return config.MomoConfig{
		Endpoint:    endpoint,
		PartnerCode: "PARTNER",
		AccessKey:   "access-key",
		SecretKey:   "secret-key",
		ReturnURL:   "https://example.org/donate/result",
		NotifyURL:   "https://example.org/payments/momo/ipn",
	}
}

func signIPN(cfg config.MomoConfig, p IPNPayload) string {
	raw := fmt.Sprintf("accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		cfg.AccessKey, p.Amount, p.ExtraData, p.Message, p.OrderID, p.OrderInfo, p.OrderType,
		cfg.PartnerCode, p.PayType, p.RequestID, p.ResponseTime, p.ResultCode, p.TransID)
	mac := hmac.New(sha256.New, []byte(cfg.SecretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreatePaymentSignsAndReturnsPayURL(t *testing.T) {
	var received momoCreateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(momoCreateResponse{ResultCode: 0, PayURL: "https://pay.example/abc"})
	}))
	defer srv.Close()

	cfg := testMomoConfig(srv.URL)
	client := NewMomoClient(cfg)
	payURL, err := client.CreatePayment(context.Background(), "order-1", "Donation from Alex", 50000)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/abc", payURL)

	assert.Equal(t, "PARTNER", received.PartnerCode)
	assert.Equal(t, int64(50000), received.Amount)
	assert.Equal(t, "order-1", received.OrderID)
	assert.Equal(t, "captureWallet", received.RequestType)

	// The signature is HMAC-SHA256 over the alphabetically ordered fields.
	raw := fmt.Sprintf("accessKey=%s&amount=%d&extraData=&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=captureWallet",
		cfg.AccessKey, received.Amount, cfg.NotifyURL, received.OrderID, received.OrderInfo,
		cfg.PartnerCode, cfg.ReturnURL, received.RequestID)
	mac := hmac.New(sha256.New, []byte(cfg.SecretKey))
	mac.Write([]byte(raw))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), received.Signature)
}

func TestCreatePaymentGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(momoCreateResponse{ResultCode: 41, Message: "duplicate orderId"})
	}))
	defer srv.Close()

	client := NewMomoClient(testMomoConfig(srv.URL))
	_, err := client.CreatePayment(context.Background(), "order-1", "info", 1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate orderId")
}

func TestVerifyIPN(t *testing.T) {
	cfg := testMomoConfig("http://unused")
	client := NewMomoClient(cfg)

	payload := IPNPayload{
		PartnerCode:  "PARTNER",
		OrderID:      "order-1",
		RequestID:    "order-1",
		Amount:       50000,
		OrderInfo:    "Donation from Alex",
		OrderType:    "momo_wallet",
		TransID:      123456789,
		ResultCode:   0,
		Message:      "Successful.",
		PayType:      "qr",
		ResponseTime: 1700000000000,
	}
	payload.Signature = signIPN(cfg, payload)
	assert.True(t, client.VerifyIPN(payload))

	// Any tampered field breaks the signature.
	tampered := payload
	tampered.Amount = 999999
	assert.False(t, client.VerifyIPN(tampered))

	forged := payload
	forged.Signature = "deadbeef"
	assert.False(t, client.VerifyIPN(forged))
}
