package sms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPhoneForDialog(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"Local Format", "0771234567", "771234567", false},
		{"Country Code", "94771234567", "771234567", false},
		{"Plus Country Code", "+94771234567", "771234567", false},
		{"With Separators", "077-123 4567", "771234567", false},
		{"Already Nine Digits", "771234567", "771234567", false},
		{"Too Short", "07712345", "", true},
		{"Landline", "0112345678", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatPhoneForDialog(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSend(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var sent sendSMSRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/login":
				json.NewEncoder(w).Encode(map[string]interface{}{
					"status":     "success",
					"token":      "test-token",
					"expiration": 3600,
				})
			case "/sms":
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
				json.NewEncoder(w).Encode(map[string]interface{}{"status": "success"})
			default:
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
		}))
		defer server.Close()

		gateway := NewDialogGateway(DialogConfig{
			APIURL:   server.URL,
			Username: "user",
			Password: "pass",
			Mask:     "LetsGo",
		})

		txID, err := gateway.Send("0771234567", "Your booking is confirmed")
		require.NoError(t, err)
		assert.NotZero(t, txID)

		require.Len(t, sent.MSISDN, 1)
		assert.Equal(t, "771234567", sent.MSISDN[0].Mobile)
		assert.Equal(t, "Your booking is confirmed", sent.Message)
		assert.Equal(t, "LetsGo", sent.SourceAddress)
	})

	t.Run("Login Failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "failed",
				"comment": "bad credentials",
				"errCode": "E102",
			})
		}))
		defer server.Close()

		gateway := NewDialogGateway(DialogConfig{APIURL: server.URL, Username: "user", Password: "wrong"})

		_, err := gateway.Send("0771234567", "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad credentials")
	})

	t.Run("Invalid Number Rejected Before Send", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/login" {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"status": "success", "token": "t", "expiration": 3600,
				})
				return
			}
			calls++
		}))
		defer server.Close()

		gateway := NewDialogGateway(DialogConfig{APIURL: server.URL, Username: "user", Password: "pass"})

		_, err := gateway.Send("12345", "hello")
		assert.Error(t, err)
		assert.Zero(t, calls)
	})

	t.Run("Token Reused Across Sends", func(t *testing.T) {
		logins := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/login" {
				logins++
				json.NewEncoder(w).Encode(map[string]interface{}{
					"status": "success", "token": "t", "expiration": 3600,
				})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"status": "success"})
		}))
		defer server.Close()

		gateway := NewDialogGateway(DialogConfig{APIURL: server.URL, Username: "user", Password: "pass"})

		_, err := gateway.Send("0771234567", "first")
		require.NoError(t, err)
		_, err = gateway.Send("0771234567", "second")
		require.NoError(t, err)

		assert.Equal(t, 1, logins)
	})
}

func TestSendBulk(t *testing.T) {
	var sent sendSMSRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "success", "token": "t", "expiration": 3600,
			})
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "success"})
	}))
	defer server.Close()

	gateway := NewDialogGateway(DialogConfig{APIURL: server.URL, Username: "user", Password: "pass"})

	t.Run("Skips Invalid Numbers", func(t *testing.T) {
		_, err := gateway.SendBulk([]string{"0771234567", "bogus", "0751112222"}, "schedule changed")
		require.NoError(t, err)
		require.Len(t, sent.MSISDN, 2)
	})

	t.Run("All Invalid", func(t *testing.T) {
		_, err := gateway.SendBulk([]string{"bogus"}, "schedule changed")
		assert.Error(t, err)
	})
}
