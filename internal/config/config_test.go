package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ORDER_REFERENCE_PREFIX", "")
	t.Setenv("PRICE_TOLERANCE", "")

	cfg := Load()

	assert.Equal(t, "GROCER", cfg.Checkout.ReferencePrefix)
	assert.Equal(t, 10, cfg.Checkout.ReferenceAttempts)
	assert.Equal(t, "0.01", cfg.Checkout.PriceTolerance.String())
	assert.Equal(t, "wave_qr", cfg.Checkout.DefaultPaymentMethod)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ORDER_REFERENCE_PREFIX", "SHOP")
	t.Setenv("PRICE_TOLERANCE", "0.5")
	t.Setenv("CHECKOUT_TIMEOUT", "3s")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("ORDER_REFERENCE_ATTEMPTS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "SHOP", cfg.Checkout.ReferencePrefix)
	assert.Equal(t, "0.5", cfg.Checkout.PriceTolerance.String())
	assert.Equal(t, 3*time.Second, cfg.Checkout.Timeout)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Checkout.ReferenceAttempts)
}

func TestSMTPConfigured(t *testing.T) {
	assert.False(t, SMTPConfig{Host: "smtp"}.Configured())
	assert.True(t, SMTPConfig{Host: "smtp", Username: "u", Password: "p"}.Configured())
}
