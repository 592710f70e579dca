package smartpay

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	domainErrors "github.com/idrissabarry/vendgate/internal/domain/errors"
)

// Sign types accepted by the gateway. Anything else is a configuration
// error, rejected at config validation and again at sign time.
const (
	SignTypeMD5        = "MD5"
	SignTypeHMACSHA256 = "HMAC-SHA256"
)

// Signer computes request signatures per the SmartPay protocol. All methods
// are pure functions of their inputs; identical inputs always yield the same
// signature.
type Signer struct {
	User     string
	Password string
	SignType string
}

// NewSigner creates a Signer for the given credentials and sign type.
func NewSigner(user, password, signType string) *Signer {
	return &Signer{User: user, Password: password, SignType: signType}
}

// GenerateSeed returns a fresh unpredictable seed for one request: the MD5
// of a high-resolution timestamp mixed with random bytes, upper-case hex.
func GenerateSeed() string {
	var entropy [8]byte
	rand.Read(entropy[:])
	src := fmt.Sprintf("%d%x", time.Now().UnixNano(), entropy)
	sum := md5.Sum([]byte(src))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// deriveKey performs the three-stage key derivation the gateway documents:
//  1. passHash = HMAC-SHA256(key=password, msg=password)
//  2. value    = MD5(user + passHash + tokenValue)
//  3. key      = MD5(value + seed)
//
// tokenValue is empty when no session token exists yet (token issuance).
func (s *Signer) deriveKey(seed, tokenValue string) string {
	mac := hmac.New(sha256.New, []byte(s.Password))
	mac.Write([]byte(s.Password))
	passHash := hex.EncodeToString(mac.Sum(nil))

	valueSum := md5.Sum([]byte(s.User + passHash + tokenValue))
	value := hex.EncodeToString(valueSum[:])

	keySum := md5.Sum([]byte(value + seed))
	return hex.EncodeToString(keySum[:])
}

// Sign computes the signature over params: empty values are dropped, the
// rest are sorted by key and URL-encoded as k=v&k=v, then "&key=<derived>"
// is appended and the whole string is hashed per the configured sign type.
func (s *Signer) Sign(params map[string]any, seed, tokenValue string) (string, error) {
	values := url.Values{}
	for k, v := range params {
		str := stringifyParam(v)
		if str == "" {
			continue
		}
		values.Set(k, str)
	}

	// url.Values.Encode sorts by key and escapes values, matching the
	// gateway's canonical form.
	stringA := values.Encode()
	key := s.deriveKey(seed, tokenValue)
	stringSignTemp := stringA + "&key=" + key

	switch s.SignType {
	case SignTypeMD5:
		sum := md5.Sum([]byte(stringSignTemp))
		return strings.ToUpper(hex.EncodeToString(sum[:])), nil
	case SignTypeHMACSHA256:
		mac := hmac.New(sha256.New, []byte(key))
		mac.Write([]byte(stringSignTemp))
		return strings.ToUpper(hex.EncodeToString(mac.Sum(nil))), nil
	default:
		return "", fmt.Errorf("%w: %q", domainErrors.ErrUnsupportedSignType, s.SignType)
	}
}

// stringifyParam converts a request parameter to its canonical string form.
// Empty strings and nils are signalled by returning "".
func stringifyParam(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return fmt.Sprintf("%d", t)
	case int64:
		return fmt.Sprintf("%d", t)
	case float64:
		// Whole floats print without a trailing .0, matching the JSON body.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
