package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettingKey(t *testing.T) {
	for _, k := range SettingKeys {
		got, err := ParseSettingKey(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseSettingKey("theme")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSettingKey))
}

func TestDecodeSetting_TypedPerKey(t *testing.T) {
	v, err := DecodeSetting(SettingContact, []byte(`{"email":"sales@stone.example","phone":"+91 99999","address":"Kishangarh"}`))
	require.NoError(t, err)
	contact, ok := v.(ContactSetting)
	require.True(t, ok, "contact key should decode to ContactSetting, got %T", v)
	assert.Equal(t, "sales@stone.example", contact.Email)
	assert.Equal(t, SettingContact, contact.SettingKey())

	v, err = DecodeSetting(SettingFooter, []byte(`{"about":"Since 1990"}`))
	require.NoError(t, err)
	footer := v.(FooterSetting)
	assert.Equal(t, "Since 1990", footer.About)
	assert.NotNil(t, footer.Links, "links should default to an empty list")
}

func TestDecodeSetting_NullGivesEmptyValue(t *testing.T) {
	v, err := DecodeSetting(SettingLogo, []byte("null"))
	require.NoError(t, err)
	assert.Equal(t, LogoSetting{}, v)
}

func TestDecodeSetting_Malformed(t *testing.T) {
	_, err := DecodeSetting(SettingSocial, []byte(`{"facebook": 42}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed setting value")
}

func TestDecodeSetting_UnknownKey(t *testing.T) {
	_, err := DecodeSetting(SettingKey("banner"), []byte(`{}`))
	assert.True(t, errors.Is(err, ErrUnknownSettingKey))
}

func TestProductImages_ScanAndValue(t *testing.T) {
	var imgs ProductImages
	require.NoError(t, imgs.Scan([]byte(`[{"url":"https://cdn/x.jpg","isNewArrival":true}]`)))
	require.Len(t, imgs, 1)
	assert.True(t, imgs[0].IsNewArrival)

	require.NoError(t, imgs.Scan(nil))
	assert.Empty(t, imgs)

	v, err := ProductImages(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}
