package metrics

import (
	"net/url"
	"time"
)

// Config содержит настройки отправки метрик.
type Config struct {
	Enabled bool

	// PushgatewayURL — например "http://pushgateway:9091".
	PushgatewayURL string

	// JobName — job в Pushgateway. По умолчанию "testshard".
	JobName string

	Timeout time.Duration

	// InstanceLabel — значение label instance. Пусто — hostname.
	InstanceLabel string
}

// Validate проверяет корректность конфигурации.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.PushgatewayURL == "" {
		return ErrPushgatewayURLRequired
	}
	u, err := url.Parse(c.PushgatewayURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrPushgatewayURLInvalid
	}
	if c.JobName == "" {
		return ErrJobNameRequired
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		JobName: "testshard",
		Timeout: 10 * time.Second,
	}
}
