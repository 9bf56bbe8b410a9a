package webhook

import (
	"strings"
	"testing"
)

func TestParsePayloadFormEncoded(t *testing.T) {
	body := []byte("order_num=17&payment_status=success&sum=2000.00&customer_email=a%40b.example")
	fields := ParsePayload("application/x-www-form-urlencoded", body)

	if fields["order_num"] != "17" {
		t.Fatalf("expected order_num 17, got %q", fields["order_num"])
	}
	if fields["payment_status"] != "success" {
		t.Fatalf("expected payment_status success, got %q", fields["payment_status"])
	}
	if fields["customer_email"] != "a@b.example" {
		t.Fatalf("expected decoded email, got %q", fields["customer_email"])
	}
}

func TestParsePayloadJSON(t *testing.T) {
	body := []byte(`{"order_id": 17, "payment_status": "success", "sum": "2000.00"}`)
	fields := ParsePayload("application/json", body)

	if fields["order_id"] != "17" {
		t.Fatalf("expected integral number flattened to 17, got %q", fields["order_id"])
	}
	if fields["payment_status"] != "success" {
		t.Fatalf("expected payment_status success, got %q", fields["payment_status"])
	}
}

func TestParsePayloadDetectsJSONWithoutContentType(t *testing.T) {
	body := []byte(`  {"order_num": "3"}`)
	fields := ParsePayload("", body)

	if fields["order_num"] != "3" {
		t.Fatalf("expected order_num 3, got %q", fields["order_num"])
	}
}

func TestParsePayloadGarbageYieldsEmptyBag(t *testing.T) {
	cases := []struct {
		contentType string
		body        string
	}{
		{"application/json", "{not json"},
		{"application/json", "order_num=1"},
		{"", "  {broken"},
	}

	for _, tc := range cases {
		fields := ParsePayload(tc.contentType, []byte(tc.body))
		if len(fields) != 0 {
			t.Fatalf("body %q: expected empty field bag, got %v", tc.body, fields)
		}
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "topsecret"
	body := []byte("order_num=1&payment_status=success")
	sig := ComputeSignature(secret, body)

	if !VerifySignature(secret, body, sig) {
		t.Fatalf("expected signature to verify")
	}
	if !VerifySignature(secret, body, strings.ToUpper(sig)) {
		t.Fatalf("expected case-insensitive verification")
	}
	if VerifySignature(secret, body, "") {
		t.Fatalf("empty signature must not verify")
	}
	if VerifySignature(secret, []byte("order_num=2"), sig) {
		t.Fatalf("signature over different body must not verify")
	}
	if VerifySignature("othersecret", body, sig) {
		t.Fatalf("signature under different secret must not verify")
	}
}
