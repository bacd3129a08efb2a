// internal/provider/mpesa/password.go
package mpesa

import (
	"encoding/base64"
	"time"
)

const timestampLayout = "20060102150405"

// Timestamp formats t as the 14-digit UTC timestamp Daraja expects.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Password derives the Lipa Na M-Pesa request password: base64 of
// shortcode + passkey + timestamp. The password is only valid together with
// the timestamp it was derived from.
func Password(shortcode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + timestamp))
}
