package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// applyFileOverlay layers an optional giftcert.yml on top of the
// environment-derived configuration. The file is intended for self-hosted
// deployments where payment-form details live next to the binary.
func applyFileOverlay(cfg *Config) {
	v := viper.New()

	v.SetConfigName("giftcert")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/giftcert")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GIFTCERT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("[config] giftcert.yml ignored: %v", err)
		}
		return
	}

	if s := strings.TrimSpace(v.GetString("payment.form_url")); s != "" {
		cfg.Payment.FormURL = s
	}
	if s := strings.TrimSpace(v.GetString("payment.secret")); s != "" {
		cfg.Payment.Secret = s
	}
	if v.IsSet("payment.enforce_signature") {
		cfg.Payment.EnforceSignature = v.GetBool("payment.enforce_signature")
	}
	if n := v.GetInt64("payment.amount"); n > 0 {
		cfg.Payment.Amount = n
	}
	if s := strings.TrimSpace(v.GetString("telegram.webhook_path")); s != "" {
		cfg.Telegram.WebhookPath = s
	}
}
