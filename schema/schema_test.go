package schema

import (
	"errors"
	"testing"

	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/setting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFolders struct {
	folders []string
	err     error
}

func (s staticFolders) ListFolders() ([]string, error) {
	return s.folders, s.err
}

func TestOptionsFieldsDefaults(t *testing.T) {
	b := NewBuilder(false, nil)
	fields, err := b.OptionsFields(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		setting.KeyScanInterval,
		setting.KeyIntervalMultiplier,
		setting.KeyRequestDelay,
		setting.KeyExcludedCategories,
	}, Keys(fields))

	scan, _ := Find(fields, setting.KeyScanInterval)
	assert.Equal(t, KindNumber, scan.Kind)
	assert.Equal(t, 60.0, scan.Default)
	assert.Equal(t, 30.0, *scan.Min)
	assert.Equal(t, 600.0, *scan.Max)
	assert.Equal(t, 10.0, *scan.Step)
	assert.Equal(t, "sec", scan.Unit)

	mult, _ := Find(fields, setting.KeyIntervalMultiplier)
	assert.Equal(t, KindInteger, mult.Kind)
	assert.Equal(t, 10, mult.Default)
	assert.Equal(t, 2.0, *mult.Min)
	assert.Equal(t, 60.0, *mult.Max)
	assert.Equal(t, 2.0, *mult.Step)

	delay, _ := Find(fields, setting.KeyRequestDelay)
	assert.Equal(t, 0.3, delay.Default)
	assert.Equal(t, 0.0, *delay.Min)
	assert.Equal(t, 2.0, *delay.Max)
	assert.Equal(t, 0.1, *delay.Step)

	excluded, _ := Find(fields, setting.KeyExcludedCategories)
	assert.True(t, excluded.Multiple)
	assert.False(t, excluded.Sort)
	assert.Equal(t, model.ApiCategories, excluded.Options)
	assert.Equal(t, []string{model.CategorySolarbankEnergy}, excluded.Default)
}

func TestOptionsFieldsFromPrevious(t *testing.T) {
	b := NewBuilder(false, nil)
	prev := &model.Options{
		ScanInterval:       120,
		IntervalMultiplier: 6,
		RequestDelay:       0,
		ExcludedCategories: []string{model.CategorySitePrice, model.DeviceTypePPS},
	}
	fields, err := b.OptionsFields(prev)
	require.NoError(t, err)

	scan, _ := Find(fields, setting.KeyScanInterval)
	assert.Equal(t, 120.0, scan.Default)
	mult, _ := Find(fields, setting.KeyIntervalMultiplier)
	assert.Equal(t, 6, mult.Default)
	delay, _ := Find(fields, setting.KeyRequestDelay)
	assert.Equal(t, 0.0, delay.Default)
	excluded, _ := Find(fields, setting.KeyExcludedCategories)
	assert.Equal(t, []string{model.CategorySitePrice, model.DeviceTypePPS}, excluded.Default)
}

func TestOptionsFieldsTestMode(t *testing.T) {
	b := NewBuilder(true, staticFolders{folders: []string{"sb_solo", "pps_only", "mixed"}})
	fields, err := b.OptionsFields(nil)
	require.NoError(t, err)

	require.Len(t, fields, 6)
	scan, _ := Find(fields, setting.KeyScanInterval)
	assert.Equal(t, 10.0, *scan.Min)

	mode, ok := Find(fields, setting.KeyTestMode)
	require.True(t, ok)
	assert.Equal(t, KindBoolean, mode.Kind)
	assert.Equal(t, false, mode.Default)

	folder, ok := Find(fields, setting.KeyTestFolder)
	require.True(t, ok)
	assert.Equal(t, []string{"mixed", "pps_only", "sb_solo"}, folder.Options)
	assert.Equal(t, "mixed", folder.SuggestedValue)
	assert.Equal(t, ModeDropdown, folder.Mode)

	fields, err = b.OptionsFields(&model.Options{TestMode: true, TestFolder: "pps_only"})
	require.NoError(t, err)
	folder, _ = Find(fields, setting.KeyTestFolder)
	assert.Equal(t, "pps_only", folder.SuggestedValue)
}

func TestOptionsFieldsTestModeWithoutFolders(t *testing.T) {
	b := NewBuilder(true, staticFolders{})
	fields, err := b.OptionsFields(nil)
	require.NoError(t, err)

	folder, _ := Find(fields, setting.KeyTestFolder)
	assert.Equal(t, []string{""}, folder.Options)
	assert.Equal(t, "", folder.SuggestedValue)

	b = NewBuilder(true, staticFolders{err: errors.New("boom")})
	_, err = b.OptionsFields(nil)
	assert.Error(t, err)
}

func TestCredentialFields(t *testing.T) {
	b := NewBuilder(false, nil)
	fields := b.CredentialFields(nil, "DE")
	assert.Equal(t, []string{
		setting.KeyUsername,
		setting.KeyPassword,
		setting.KeyCountryCode,
		setting.KeyAcceptTerms,
	}, Keys(fields))

	country, _ := Find(fields, setting.KeyCountryCode)
	assert.Equal(t, "DE", country.Default)

	fields = b.CredentialFields(&model.CredentialInput{Username: "a@x.com", CountryCode: "US"}, "DE")
	country, _ = Find(fields, setting.KeyCountryCode)
	assert.Equal(t, "US", country.Default)
	user, _ := Find(fields, setting.KeyUsername)
	assert.Equal(t, "a@x.com", user.Default)
	assert.Equal(t, "email", user.InputType)
}

func TestValidate(t *testing.T) {
	b := NewBuilder(false, nil)
	fields, err := b.OptionsFields(nil)
	require.NoError(t, err)

	errs := Validate(fields, map[string]any{
		setting.KeyScanInterval:       60.0,
		setting.KeyIntervalMultiplier: 10.0,
		setting.KeyRequestDelay:       0.0,
		setting.KeyExcludedCategories: []any{model.DeviceTypePPS},
	})
	assert.Empty(t, errs)

	errs = Validate(fields, map[string]any{
		setting.KeyScanInterval:       10.0,
		setting.KeyIntervalMultiplier: 2.5,
		setting.KeyRequestDelay:       "fast",
		setting.KeyExcludedCategories: []any{"unknown"},
	})
	assert.Equal(t, map[string]string{
		setting.KeyScanInterval:       ErrOutOfRange,
		setting.KeyIntervalMultiplier: ErrInvalidType,
		setting.KeyRequestDelay:       ErrInvalidType,
		setting.KeyExcludedCategories: ErrInvalidOption,
	}, errs)
}

func TestValidateTestFolder(t *testing.T) {
	b := NewBuilder(true, staticFolders{folders: []string{"pps only", "sb,solo"}})
	fields, err := b.OptionsFields(nil)
	require.NoError(t, err)

	assert.Empty(t, Validate(fields, map[string]any{setting.KeyTestFolder: "pps only"}))
	assert.Empty(t, Validate(fields, map[string]any{setting.KeyTestFolder: "sb,solo"}))
	assert.Equal(t, map[string]string{setting.KeyTestFolder: ErrInvalidOption},
		Validate(fields, map[string]any{setting.KeyTestFolder: "pps"}))

	b = NewBuilder(true, staticFolders{})
	fields, err = b.OptionsFields(nil)
	require.NoError(t, err)
	assert.Empty(t, Validate(fields, map[string]any{
		setting.KeyTestFolder:         "",
		setting.KeyExcludedCategories: []any{},
	}))
}
