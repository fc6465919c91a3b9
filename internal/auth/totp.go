package auth

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/pquerna/otp/totp"
)

const qrImageSize = 200

// TOTPProvision is the result of provisioning a TOTP second factor: the
// shared secret, the otpauth URL and a base64-encoded PNG of its QR code
type TOTPProvision struct {
	Secret    string `json:"secret"`
	URL       string `json:"url"`
	QRCodePNG string `json:"qr_code"`
}

// ProvisionTOTP generates a new TOTP secret for the account along with
// its provisioning QR code
func ProvisionTOTP(issuer, account string) (*TOTPProvision, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	img, err := key.Image(qrImageSize, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	return &TOTPProvision{
		Secret:    key.Secret(),
		URL:       key.URL(),
		QRCodePNG: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// VerifyTOTP reports whether the code is currently valid for the secret
func VerifyTOTP(secret, code string) bool {
	return totp.Validate(code, secret)
}
