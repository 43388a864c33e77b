package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func fixedError() string { return "The data is not valid" }

func postPay(t *testing.T, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(fixedError, nil).Register(router, "/api/payments/pay")

	req := httptest.NewRequest(http.MethodPost, "/api/payments/pay", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func payForm(identify, card, price string) url.Values {
	form := url.Values{}
	form.Set("identify_number", identify)
	form.Set("cart_number", card)
	form.Set("price", price)
	return form
}

func decodeReply(t *testing.T, rec *httptest.ResponseRecorder) (bool, string) {
	t.Helper()
	var body struct {
		Successfully bool   `json:"successfully"`
		Error        string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body.Successfully, body.Error
}

func TestPayApprovesEvenCard(t *testing.T) {
	rec := postPay(t, payForm("42", "12341234", "99.90"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	ok, msg := decodeReply(t, rec)
	if !ok || msg != "" {
		t.Fatalf("unexpected reply %s", rec.Body.String())
	}
}

func TestPayRefusals(t *testing.T) {
	cases := []struct {
		name string
		form url.Values
	}{
		{name: "odd card", form: payForm("42", "12341233", "99.90")},
		{name: "card too short", form: payForm("42", "1234123", "99.90")},
		{name: "card too long", form: payForm("42", "123412345", "99.90")},
		{name: "card not a number", form: payForm("42", "1234abcd", "99.90")},
		{name: "bad order id", form: payForm("abc", "12341234", "99.90")},
		{name: "bad price", form: payForm("42", "12341234", "ninety")},
		{name: "empty form", form: url.Values{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postPay(t, tc.form)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			ok, msg := decodeReply(t, rec)
			if ok {
				t.Fatalf("refusal must carry successfully=false")
			}
			if msg != "The data is not valid" {
				t.Fatalf("expected the picked error, got %q", msg)
			}
		})
	}
}

func TestPayCardRangeBoundaries(t *testing.T) {
	cases := []struct {
		card string
		want int
	}{
		{"10000000", http.StatusOK},
		{"99999998", http.StatusOK},
		{"09999998", http.StatusUnauthorized},
		{"99999999", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		rec := postPay(t, payForm("1", tc.card, "10.00"))
		if rec.Code != tc.want {
			t.Fatalf("card %s: expected %d, got %d", tc.card, tc.want, rec.Code)
		}
	}
}

func TestRandomErrorIsCanned(t *testing.T) {
	seen := map[string]bool{}
	for _, msg := range refusalErrors {
		seen[msg] = true
	}
	for i := 0; i < 50; i++ {
		if msg := RandomError(); !seen[msg] {
			t.Fatalf("unexpected refusal message %q", msg)
		}
	}
}
