package sms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"
)

// DialogGateway sends notification SMS via the Dialog eSMS API. Access
// tokens are cached and refreshed ahead of expiry.
type DialogGateway struct {
	apiURL   string
	username string
	password string
	mask     string
	client   *http.Client

	token       string
	tokenMutex  sync.RWMutex
	tokenExpiry time.Time
}

// DialogConfig holds configuration for the Dialog SMS gateway
type DialogConfig struct {
	APIURL   string
	Username string
	Password string
	Mask     string
}

// NewDialogGateway creates a new Dialog SMS gateway client
func NewDialogGateway(config DialogConfig) *DialogGateway {
	return &DialogGateway{
		apiURL:   config.APIURL,
		username: config.Username,
		password: config.Password,
		mask:     config.Mask,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status     string `json:"status"`
	Comment    string `json:"comment"`
	Token      string `json:"token"`
	Expiration int    `json:"expiration"`
	ErrCode    string `json:"errCode"`
}

type smsRecipient struct {
	Mobile string `json:"mobile"`
}

type sendSMSRequest struct {
	MSISDN        []smsRecipient `json:"msisdn"`
	Message       string         `json:"message"`
	SourceAddress string         `json:"sourceAddress,omitempty"`
	TransactionID int64          `json:"transaction_id"`
	PaymentMethod int            `json:"payment_method,omitempty"`
}

type sendSMSResponse struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	ErrCode string `json:"errCode"`
}

// login retrieves a fresh access token
func (d *DialogGateway) login() error {
	jsonData, err := json.Marshal(loginRequest{
		Username: d.username,
		Password: d.password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.apiURL+"/login", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read login response: %w", err)
	}

	var loginResp loginResponse
	if err := json.Unmarshal(body, &loginResp); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}

	if loginResp.Status != "success" {
		return fmt.Errorf("login failed: %s (error code: %s)", loginResp.Comment, loginResp.ErrCode)
	}

	d.tokenMutex.Lock()
	d.token = loginResp.Token
	d.tokenExpiry = time.Now().Add(time.Duration(loginResp.Expiration) * time.Second)
	d.tokenMutex.Unlock()

	return nil
}

// isTokenValid checks if the cached token is still usable. The token is
// treated as invalid 5 minutes before actual expiry.
func (d *DialogGateway) isTokenValid() bool {
	d.tokenMutex.RLock()
	defer d.tokenMutex.RUnlock()

	if d.token == "" {
		return false
	}

	return time.Now().Before(d.tokenExpiry.Add(-5 * time.Minute))
}

func (d *DialogGateway) ensureValidToken() error {
	if d.isTokenValid() {
		return nil
	}

	return d.login()
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// FormatPhoneForDialog converts a phone number to Dialog's 9-digit format.
// Input: "0771234567" or "94771234567" or "+94771234567".
// Output: "771234567".
func FormatPhoneForDialog(phone string) (string, error) {
	phone = nonDigits.ReplaceAllString(phone, "")

	if strings.HasPrefix(phone, "94") && len(phone) == 11 {
		phone = phone[2:]
	}

	if strings.HasPrefix(phone, "0") && len(phone) == 10 {
		phone = phone[1:]
	}

	if len(phone) != 9 {
		return "", fmt.Errorf("invalid phone number length after formatting: %d digits (expected 9)", len(phone))
	}

	if !strings.HasPrefix(phone, "7") {
		return "", fmt.Errorf("invalid Sri Lankan mobile prefix: must start with 7")
	}

	return phone, nil
}

// Send delivers a message to a single phone number and returns the Dialog
// transaction ID
func (d *DialogGateway) Send(phone, message string) (int64, error) {
	if err := d.ensureValidToken(); err != nil {
		return 0, fmt.Errorf("failed to get access token: %w", err)
	}

	formattedPhone, err := FormatPhoneForDialog(phone)
	if err != nil {
		return 0, fmt.Errorf("failed to format phone number: %w", err)
	}

	return d.send([]smsRecipient{{Mobile: formattedPhone}}, message)
}

// SendBulk delivers a message to multiple recipients. Numbers that fail
// formatting are skipped.
func (d *DialogGateway) SendBulk(phones []string, message string) (int64, error) {
	if err := d.ensureValidToken(); err != nil {
		return 0, fmt.Errorf("failed to get access token: %w", err)
	}

	recipients := make([]smsRecipient, 0, len(phones))
	for _, phone := range phones {
		formattedPhone, err := FormatPhoneForDialog(phone)
		if err != nil {
			continue
		}
		recipients = append(recipients, smsRecipient{Mobile: formattedPhone})
	}

	if len(recipients) == 0 {
		return 0, fmt.Errorf("no valid recipients after formatting")
	}

	return d.send(recipients, message)
}

func (d *DialogGateway) send(recipients []smsRecipient, message string) (int64, error) {
	// Transaction IDs must be unique per campaign; microsecond timestamps
	// are unique enough at our send rates.
	transactionID := time.Now().UnixMicro()

	jsonData, err := json.Marshal(sendSMSRequest{
		MSISDN:        recipients,
		Message:       message,
		SourceAddress: d.mask,
		TransactionID: transactionID,
		PaymentMethod: 0,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal SMS request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.apiURL+"/sms", bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, fmt.Errorf("failed to create SMS request: %w", err)
	}

	d.tokenMutex.RLock()
	req.Header.Set("Authorization", "Bearer "+d.token)
	d.tokenMutex.RUnlock()
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read SMS response: %w", err)
	}

	var smsResp sendSMSResponse
	if err := json.Unmarshal(body, &smsResp); err != nil {
		return 0, fmt.Errorf("failed to parse SMS response: %w", err)
	}

	if smsResp.Status != "success" {
		return 0, fmt.Errorf("SMS sending failed: %s (error code: %s)", smsResp.Comment, smsResp.ErrCode)
	}

	return transactionID, nil
}

// GetName returns the name of this SMS gateway
func (d *DialogGateway) GetName() string {
	return "Dialog eSMS Gateway"
}
