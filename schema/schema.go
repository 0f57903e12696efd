package schema

import (
	"sort"

	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/setting"
	"go.openly.dev/pointy"
)

type Kind string

const (
	KindText    Kind = "text"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindSelect  Kind = "select"
	KindCountry Kind = "country"
)

const (
	ModeBox      = "box"
	ModeSlider   = "slider"
	ModeDropdown = "dropdown"
)

// Field describes one form input for a host renderer.
type Field struct {
	Key            string   `json:"key"`
	Kind           Kind     `json:"kind"`
	Required       bool     `json:"required,omitempty"`
	Default        any      `json:"default,omitempty"`
	SuggestedValue any      `json:"suggested_value,omitempty"`
	Min            *float64 `json:"min,omitempty"`
	Max            *float64 `json:"max,omitempty"`
	Step           *float64 `json:"step,omitempty"`
	Unit           string   `json:"unit,omitempty"`
	Mode           string   `json:"mode,omitempty"`
	Options        []string `json:"options,omitempty"`
	Multiple       bool     `json:"multiple,omitempty"`
	Sort           bool     `json:"sort,omitempty"`
	InputType      string   `json:"input_type,omitempty"`
	Autocomplete   string   `json:"autocomplete,omitempty"`
	TranslationKey string   `json:"translation_key,omitempty"`
}

type FolderLister interface {
	ListFolders() ([]string, error)
}

type Builder struct {
	AllowTestMode bool
	Folders       FolderLister
}

func NewBuilder(allowTestMode bool, folders FolderLister) *Builder {
	return &Builder{AllowTestMode: allowTestMode, Folders: folders}
}

// CredentialFields renders the account form, keeping previous input.
func (b *Builder) CredentialFields(prev *model.CredentialInput, defaultCountry string) []Field {
	if prev == nil {
		prev = &model.CredentialInput{}
	}

	country := prev.CountryCode
	if country == "" {
		country = defaultCountry
	}

	return []Field{
		{Key: setting.KeyUsername, Kind: KindText, Required: true, Default: prev.Username, InputType: "email", Autocomplete: "username"},
		{Key: setting.KeyPassword, Kind: KindText, Required: true, Default: prev.Password, InputType: "password", Autocomplete: "current-password"},
		{Key: setting.KeyCountryCode, Kind: KindCountry, Required: true, Default: country},
		{Key: setting.KeyAcceptTerms, Kind: KindBoolean, Required: true, Default: prev.AcceptTerms},
	}
}

// OptionsFields renders the options form with defaults taken from prev.
func (b *Builder) OptionsFields(prev *model.Options) ([]Field, error) {
	opts := model.DefaultOptions()
	if prev != nil {
		opts = *prev
	}

	scanMin := setting.ScanIntervalMin
	if b.AllowTestMode {
		scanMin = setting.ScanIntervalMinTestMode
	}

	excluded := opts.ExcludedCategories
	if excluded == nil {
		excluded = append([]string(nil), model.DefaultExcludeCategories...)
	}

	fields := []Field{
		{
			Key:     setting.KeyScanInterval,
			Kind:    KindNumber,
			Default: orDefault(opts.ScanInterval, setting.ScanIntervalDefault),
			Min:     pointy.Float64(scanMin),
			Max:     pointy.Float64(setting.ScanIntervalMax),
			Step:    pointy.Float64(setting.ScanIntervalStep),
			Unit:    "sec",
			Mode:    ModeBox,
		},
		{
			Key:     setting.KeyIntervalMultiplier,
			Kind:    KindInteger,
			Default: orDefaultInt(opts.IntervalMultiplier, setting.IntervalMultiplierDefault),
			Min:     pointy.Float64(setting.IntervalMultiplierMin),
			Max:     pointy.Float64(setting.IntervalMultiplierMax),
			Step:    pointy.Float64(setting.IntervalMultiplierStep),
			Unit:    "updates",
			Mode:    ModeSlider,
		},
		{
			Key:     setting.KeyRequestDelay,
			Kind:    KindNumber,
			Default: opts.RequestDelay,
			Min:     pointy.Float64(setting.RequestDelayMin),
			Max:     pointy.Float64(setting.RequestDelayMax),
			Step:    pointy.Float64(setting.RequestDelayStep),
			Unit:    "sec",
			Mode:    ModeSlider,
		},
		{
			Key:            setting.KeyExcludedCategories,
			Kind:           KindSelect,
			Default:        excluded,
			Options:        append([]string(nil), model.ApiCategories...),
			Multiple:       true,
			Sort:           false,
			TranslationKey: setting.KeyExcludedCategories,
		},
	}

	if !b.AllowTestMode {
		return fields, nil
	}

	var folders []string
	if b.Folders != nil {
		listed, err := b.Folders.ListFolders()
		if err != nil {
			return nil, err
		}
		folders = append(folders, listed...)
	}
	if len(folders) == 0 {
		// keeps the select valid when there is nothing to choose
		folders = []string{""}
	}
	sort.Strings(folders)

	suggested := opts.TestFolder
	if suggested == "" {
		suggested = folders[0]
	}

	return append(fields,
		Field{Key: setting.KeyTestMode, Kind: KindBoolean, Default: opts.TestMode},
		Field{Key: setting.KeyTestFolder, Kind: KindSelect, SuggestedValue: suggested, Options: folders, Mode: ModeDropdown},
	), nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func Keys(fields []Field) []string {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	return keys
}

func Find(fields []Field, key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}
