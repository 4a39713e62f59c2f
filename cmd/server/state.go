package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Simplici0/salario/internal/payroll"
)

const stateCookieName = "salario_state"

// stateStore keeps the last submitted input in an HMAC-signed cookie so the
// form survives reloads without server-side storage.
type stateStore struct {
	secret []byte
}

func newStateStore(secret string) *stateStore {
	return &stateStore{secret: []byte(secret)}
}

func (s *stateStore) sign(payload string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	return mac.Sum(nil)
}

func (s *stateStore) encode(in payroll.Input) (string, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	return payload + "." + hex.EncodeToString(s.sign(payload)), nil
}

func (s *stateStore) decode(value string) (payroll.Input, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok || payload == "" {
		return payroll.Input{}, false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return payroll.Input{}, false
	}
	if !hmac.Equal(provided, s.sign(payload)) {
		return payroll.Input{}, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return payroll.Input{}, false
	}

	var in payroll.Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return payroll.Input{}, false
	}
	return in.Clamped(), true
}

func (s *stateStore) save(w http.ResponseWriter, in payroll.Input) error {
	value, err := s.encode(in)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *stateStore) load(r *http.Request) (payroll.Input, bool) {
	cookie, err := r.Cookie(stateCookieName)
	if err != nil {
		return payroll.Input{}, false
	}
	return s.decode(cookie.Value)
}

func (s *stateStore) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
