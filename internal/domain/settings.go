package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SettingKey names one of the site-wide configuration blobs.
type SettingKey string

const (
	SettingLogo    SettingKey = "logo"
	SettingFooter  SettingKey = "footer"
	SettingSocial  SettingKey = "social"
	SettingContact SettingKey = "contact"
)

// SettingKeys lists every key the site understands.
var SettingKeys = []SettingKey{SettingLogo, SettingFooter, SettingSocial, SettingContact}

var ErrUnknownSettingKey = errors.New("domain: unknown setting key")

// SettingValue is implemented by exactly one struct per SettingKey.
type SettingValue interface {
	SettingKey() SettingKey
}

type LogoSetting struct {
	URL     string `json:"url"`
	DarkURL string `json:"darkUrl,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

func (LogoSetting) SettingKey() SettingKey { return SettingLogo }

type FooterLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type FooterSetting struct {
	About     string       `json:"about"`
	Copyright string       `json:"copyright"`
	Links     []FooterLink `json:"links"`
}

func (FooterSetting) SettingKey() SettingKey { return SettingFooter }

type SocialSetting struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Pinterest string `json:"pinterest,omitempty"`
}

func (SocialSetting) SettingKey() SettingKey { return SettingSocial }

type ContactSetting struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Address  string `json:"address"`
	MapURL   string `json:"mapUrl,omitempty"`
	Hours    string `json:"hours,omitempty"`
}

func (ContactSetting) SettingKey() SettingKey { return SettingContact }

// Setting pairs a key with its typed value.
type Setting struct {
	Key       SettingKey   `json:"key"`
	Value     SettingValue `json:"value"`
	UpdatedAt *time.Time   `json:"updatedAt,omitempty"`
}

// ParseSettingKey validates a raw key from a URL or request.
func ParseSettingKey(raw string) (SettingKey, error) {
	for _, k := range SettingKeys {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSettingKey, raw)
}

// EmptySetting returns the zero value for key, used when nothing has been saved yet.
func EmptySetting(key SettingKey) (SettingValue, error) {
	switch key {
	case SettingLogo:
		return LogoSetting{}, nil
	case SettingFooter:
		return FooterSetting{Links: []FooterLink{}}, nil
	case SettingSocial:
		return SocialSetting{}, nil
	case SettingContact:
		return ContactSetting{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSettingKey, key)
}

// DecodeSetting unmarshals raw into the struct registered for key.
func DecodeSetting(key SettingKey, raw []byte) (SettingValue, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return EmptySetting(key)
	}
	switch key {
	case SettingLogo:
		var v LogoSetting
		return decodeInto(raw, &v, func() SettingValue { return v })
	case SettingFooter:
		var v FooterSetting
		return decodeInto(raw, &v, func() SettingValue {
			if v.Links == nil {
				v.Links = []FooterLink{}
			}
			return v
		})
	case SettingSocial:
		var v SocialSetting
		return decodeInto(raw, &v, func() SettingValue { return v })
	case SettingContact:
		var v ContactSetting
		return decodeInto(raw, &v, func() SettingValue { return v })
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSettingKey, key)
}

func decodeInto(raw []byte, dst interface{}, result func() SettingValue) (SettingValue, error) {
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("domain: malformed setting value: %w", err)
	}
	return result(), nil
}
