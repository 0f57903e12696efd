package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/HavvokLab/solix-setup/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"
)

func TestAsk(t *testing.T) {
	fields := []schema.Field{
		{Key: "scan_interval", Kind: schema.KindNumber, Default: 60.0, Min: pointy.Float64(30), Max: pointy.Float64(600), Unit: "sec"},
		{Key: "interval_multiplier", Kind: schema.KindInteger, Default: 10},
		{Key: "excluded_categories", Kind: schema.KindSelect, Multiple: true, Options: []string{"pps", "site_price"}},
		{Key: "test_mode", Kind: schema.KindBoolean, Default: false},
		{Key: "test_folder", Kind: schema.KindSelect, SuggestedValue: "a_site", Options: []string{"a_site"}},
	}

	in := strings.NewReader("abc\n120\n\npps, site_price\ny\n\n")
	var out bytes.Buffer

	values, err := New(in, &out).Ask(fields, map[string]string{"base": "auth"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 120.0, values["scan_interval"])
	assert.Equal(t, 10, values["interval_multiplier"])
	assert.Equal(t, []string{"pps", "site_price"}, values["excluded_categories"])
	assert.Equal(t, true, values["test_mode"])
	assert.Equal(t, "a_site", values["test_folder"])

	assert.Contains(t, out.String(), "error base: auth")
	assert.Contains(t, out.String(), "scan_interval (sec) 30..600 {60}")
	assert.Contains(t, out.String(), "! strconv.ParseFloat")
}

func TestAskHidesPasswordDefault(t *testing.T) {
	fields := []schema.Field{{Key: "password", Kind: schema.KindText, Default: "secret", InputType: "password"}}

	var out bytes.Buffer
	values, err := New(strings.NewReader("\n"), &out).Ask(fields, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "secret", values["password"])
	assert.NotContains(t, out.String(), "secret")
}

func TestAskEOF(t *testing.T) {
	fields := []schema.Field{
		{Key: "username", Kind: schema.KindText},
		{Key: "password", Kind: schema.KindText},
	}

	values, err := New(strings.NewReader("last"), io.Discard).Ask(fields[:1], nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "last", values["username"])

	_, err = New(strings.NewReader(""), io.Discard).Ask(fields, nil, nil)
	assert.ErrorIs(t, err, io.EOF)
}
