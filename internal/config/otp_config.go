package config

import "time"

type OtpConfig interface {
	GetResendCooldown() time.Duration
	GetAutoSubmitDelay() time.Duration
}

type Otp struct {
	ResendCooldown  time.Duration `yaml:"resend_cooldown" env:"ANPR_OTP_RESEND_COOLDOWN" env-default:"60s"`
	AutoSubmitDelay time.Duration `yaml:"auto_submit_delay" env:"ANPR_OTP_AUTO_SUBMIT_DELAY" env-default:"100ms"`
}

var _ OtpConfig = Otp{}

func (o Otp) GetResendCooldown() time.Duration {
	if o.ResendCooldown < time.Second {
		return 60 * time.Second
	}
	return o.ResendCooldown
}

func (o Otp) GetAutoSubmitDelay() time.Duration {
	if o.AutoSubmitDelay <= 0 {
		return 100 * time.Millisecond
	}
	return o.AutoSubmitDelay
}
