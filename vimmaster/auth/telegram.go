package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// Telegram's domain-separation constant for Web App data signatures
	webAppDataKey = "WebAppData"

	// Handshakes older than this are rejected
	maxInitDataAge = 86400 * time.Second
)

var (
	ErrAuthExpired       = errors.New("auth data expired")
	ErrAuthMalformed     = errors.New("invalid auth data")
	ErrSignatureMismatch = errors.New("invalid hash")
)

// IdentityClaim is the typed result of a fully validated handshake. The
// intermediate key/value map never leaves this package.
type IdentityClaim struct {
	TelegramID   int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
}

// Validator checks Telegram Mini App initData handshakes against the
// long-term bot token.
type Validator struct {
	botToken string
}

func NewValidator(botToken string) *Validator {
	return &Validator{botToken: botToken}
}

// ValidateInitData verifies the signed handshake and extracts the identity
// claim. Pure validation, no side effects.
func (v *Validator) ValidateInitData(initData string) (*IdentityClaim, error) {
	return v.validateAt(initData, time.Now())
}

func (v *Validator) validateAt(initData string, now time.Time) (*IdentityClaim, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthMalformed, err)
	}

	authDate := values.Get("auth_date")
	if authDate == "" {
		return nil, fmt.Errorf("%w: missing auth_date", ErrAuthMalformed)
	}
	authTimestamp, err := strconv.ParseInt(authDate, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad auth_date: %v", ErrAuthMalformed, err)
	}

	if now.Unix()-authTimestamp > int64(maxInitDataAge/time.Second) {
		return nil, ErrAuthExpired
	}

	receivedHash := values.Get("hash")
	values.Del("hash")

	if !hmac.Equal([]byte(receivedHash), []byte(v.computeHash(values))) {
		return nil, ErrSignatureMismatch
	}

	claim := &IdentityClaim{LanguageCode: "en"}
	if err := json.Unmarshal([]byte(values.Get("user")), claim); err != nil {
		return nil, fmt.Errorf("%w: bad user payload: %v", ErrAuthMalformed, err)
	}
	if claim.LanguageCode == "" {
		claim.LanguageCode = "en"
	}

	return claim, nil
}

// computeHash builds the canonical check-string (keys sorted, key=value
// lines joined with \n) and signs it with the derived secret.
func (v *Validator) computeHash(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	checkString := strings.Join(pairs, "\n")

	// secret = HMAC-SHA256(key="WebAppData", msg=botToken)
	secretMac := hmac.New(sha256.New, []byte(webAppDataKey))
	secretMac.Write([]byte(v.botToken))
	secret := secretMac.Sum(nil)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(checkString))
	return hex.EncodeToString(mac.Sum(nil))
}
