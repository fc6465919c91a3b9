package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

func TestProvisionTOTP(t *testing.T) {
	prov, err := ProvisionTOTP("YourSocial", "alice@example.com")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if prov.Secret == "" {
		t.Error("expected a secret")
	}
	if !strings.HasPrefix(prov.URL, "otpauth://totp/") {
		t.Errorf("unexpected otpauth URL: %s", prov.URL)
	}
	if !strings.Contains(prov.URL, "YourSocial") {
		t.Errorf("expected issuer in URL: %s", prov.URL)
	}
	raw, err := base64.StdEncoding.DecodeString(prov.QRCodePNG)
	if err != nil {
		t.Fatalf("QR code is not valid base64: %v", err)
	}
	// PNG magic bytes
	if len(raw) < 8 || raw[1] != 'P' || raw[2] != 'N' || raw[3] != 'G' {
		t.Error("expected QR code to be a PNG")
	}
}

func TestVerifyTOTP(t *testing.T) {
	prov, err := ProvisionTOTP("YourSocial", "alice@example.com")
	if err != nil {
		t.Fatal(err)
	}
	code, err := totp.GenerateCode(prov.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	if !VerifyTOTP(prov.Secret, code) {
		t.Error("expected current code to verify")
	}
	if VerifyTOTP(prov.Secret, "000000") {
		t.Error("expected wrong code to fail")
	}
}
