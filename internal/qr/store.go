// Package qr issues single-use merchant payment codes backed by Redis.
package qr

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const (
	keyPrefix = "qr:"
	imageSize = 256
)

// Payload is what a scanned code resolves to.
type Payload struct {
	MerchantID  string          `json:"merchant_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

type Issued struct {
	Code      string
	ImagePNG  string
	ExpiresAt time.Time
}

type Store struct {
	redis   *redis.Client
	ttl     time.Duration
	now     func() time.Time
	newCode func() (string, error)
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: client, ttl: ttl, now: time.Now, newCode: randomCode}
}

func key(code string) string {
	return keyPrefix + code
}

func (s *Store) Issue(ctx context.Context, merchantID string, amount decimal.Decimal, description string) (*Issued, error) {
	if merchantID == "" {
		return nil, fmt.Errorf("Issue: merchant id required: %w", domain.ErrInvalidInput)
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("Issue: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("Issue: %w", err)
	}

	p := Payload{
		MerchantID:  merchantID,
		Amount:      amount,
		Description: description,
		ExpiresAt:   s.now().UTC().Add(s.ttl),
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("Issue: marshal: %w", err)
	}

	if err := s.redis.Set(ctx, key(code), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("Issue: store: %w", err)
	}

	img, err := render(code)
	if err != nil {
		return nil, fmt.Errorf("Issue: %w", err)
	}

	return &Issued{Code: code, ImagePNG: img, ExpiresAt: p.ExpiresAt}, nil
}

// Claim resolves a code and removes it so no other caller can use it. Callers
// that fail to complete the payment hand the code back with Release.
func (s *Store) Claim(ctx context.Context, code string) (*Payload, error) {
	data, err := s.redis.Get(ctx, key(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("Claim: %w", domain.ErrQRCodeInvalid)
	}
	if err != nil {
		return nil, fmt.Errorf("Claim: get: %w", err)
	}

	n, err := s.redis.Del(ctx, key(code)).Result()
	if err != nil {
		return nil, fmt.Errorf("Claim: del: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("Claim: already used: %w", domain.ErrQRCodeInvalid)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("Claim: unmarshal: %w", err)
	}
	return &p, nil
}

// Release puts a claimed code back for whatever lifetime it had left.
func (s *Store) Release(ctx context.Context, code string, p *Payload) error {
	remaining := p.ExpiresAt.Sub(s.now().UTC())
	if remaining <= 0 {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("Release: marshal: %w", err)
	}
	if err := s.redis.Set(ctx, key(code), data, remaining).Err(); err != nil {
		return fmt.Errorf("Release: %w", err)
	}
	return nil
}

func randomCode() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("randomCode: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func render(code string) (string, error) {
	q, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, q.Image(imageSize)); err != nil {
		return "", fmt.Errorf("render: encode: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
