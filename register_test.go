package authcore_test

import (
	"testing"
	"time"

	authcore "github.com/auravision/go-authcore"
	"github.com/stretchr/testify/assert"
)

func TestRegisterPayloadValidate(t *testing.T) {
	valid := authcore.RegisterPayload{
		Email:    "ana@example.com",
		Nickname: "ana",
		Password: "Secr3t!",
	}

	tests := []struct {
		name    string
		mutate  func(p *authcore.RegisterPayload)
		wantErr bool
	}{
		{"valid", func(p *authcore.RegisterPayload) {}, false},
		{"valid with birthdate", func(p *authcore.RegisterPayload) { p.Birthdate = "1990-05-20" }, false},
		{"missing email", func(p *authcore.RegisterPayload) { p.Email = "" }, true},
		{"malformed email", func(p *authcore.RegisterPayload) { p.Email = "not-an-email" }, true},
		{"short nickname", func(p *authcore.RegisterPayload) { p.Nickname = "ab" }, true},
		{"short password", func(p *authcore.RegisterPayload) { p.Password = "12345" }, true},
		{"bad birthdate", func(p *authcore.RegisterPayload) { p.Birthdate = "20/05/1990" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"national digits", "600111222", "+34600111222"},
		{"spaced national digits", "600 111 222", "+34600111222"},
		{"already e164", "+34600111222", "+34600111222"},
		{"foreign e164", "+14155552671", "+14155552671"},
		{"unparseable kept", "not a phone", "not a phone"},
		{"empty kept", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authcore.NormalizePhone(tt.in))
		})
	}
}

func TestNewQRPayloadIsStable(t *testing.T) {
	a := authcore.NewQRPayload("ana@example.com")
	b := authcore.NewQRPayload("ana@example.com")
	c := authcore.NewQRPayload("other@example.com")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "AV-QR:")
}

func TestNewUserIDFormat(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	id := authcore.NewUserID(now)
	assert.Regexp(t, `^AV_1717243200000_[0-9a-f]{9}$`, id)

	other := authcore.NewUserID(now)
	assert.NotEqual(t, id, other)
}
