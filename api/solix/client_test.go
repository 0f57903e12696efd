package solix

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/HavvokLab/solix-setup/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloud struct {
	t          *testing.T
	key        *ecdh.PrivateKey
	password   string
	loginCode  int
	loginCalls atomic.Int32
	sites      []map[string]any
	scenes     map[string]map[string]any
}

func newFakeCloud(t *testing.T) *fakeCloud {
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	return &fakeCloud{t: t, key: key, password: "secret", scenes: map[string]map[string]any{}}
}

func (f *fakeCloud) publicKey() string {
	return hex.EncodeToString(f.key.PublicKey().Bytes())
}

func (f *fakeCloud) decrypt(clientKeyHex, encrypted string) string {
	raw, err := hex.DecodeString(clientKeyHex)
	require.NoError(f.t, err)
	clientKey, err := ecdh.P256().NewPublicKey(raw)
	require.NoError(f.t, err)
	secret, err := f.key.ECDH(clientKey)
	require.NoError(f.t, err)

	data, err := base64.StdEncoding.DecodeString(encrypted)
	require.NoError(f.t, err)
	block, err := aes.NewCipher(secret)
	require.NoError(f.t, err)
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, secret[:aes.BlockSize]).CryptBlocks(out, data)
	pad := int(out[len(out)-1])
	return string(out[:len(out)-pad])
}

func (f *fakeCloud) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/" + EndpointLogin:
		f.loginCalls.Add(1)
		if f.loginCode != 0 {
			_ = json.NewEncoder(w).Encode(map[string]any{"code": f.loginCode, "msg": "login rejected"})
			return
		}
		info := body["client_secret_info"].(map[string]any)
		if f.decrypt(info["public_key"].(string), body["password"].(string)) != f.password {
			_ = json.NewEncoder(w).Encode(map[string]any{"code": CodeInvalidCredentials, "msg": "wrong password"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"msg":  "success",
			"data": map[string]any{
				"user_id":          "uid-1",
				"email":            body["email"],
				"nick_name":        "Solar Home",
				"auth_token":       "token-1",
				"token_expires_at": time.Now().Add(time.Hour).Unix(),
			},
		})
	case "/" + EndpointSiteList:
		if r.Header.Get("x-auth-token") != "token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"code": 401, "msg": "unauthorized"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": map[string]any{"site_list": f.sites}})
	case "/" + EndpointSceneInfo:
		siteID, _ := body["site_id"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": f.scenes[siteID]})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type memorySessionCache struct {
	mu       sync.Mutex
	sessions map[string]*model.LoginSession
}

func (m *memorySessionCache) GetSession(_ context.Context, username string) (*model.LoginSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[model.UniqueID(username)], nil
}

func (m *memorySessionCache) SetSession(_ context.Context, username string, session *model.LoginSession, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[model.UniqueID(username)] = session
	return nil
}

func newTestClient(t *testing.T, cloud *fakeCloud, opts ...Option) *Client {
	srv := httptest.NewServer(cloud)
	t.Cleanup(srv.Close)

	base := []Option{
		WithServer(srv.URL),
		WithServerPublicKey(cloud.publicKey()),
		WithRetryCount(0),
		WithRequestDelay(0),
		WithLogger(zerolog.Nop()),
	}
	return NewClient(model.Credentials{Username: "a@x.com", Password: "secret", CountryCode: "DE"}, append(base, opts...)...)
}

func TestAuthenticate(t *testing.T) {
	cloud := newFakeCloud(t)
	cache := &memorySessionCache{sessions: map[string]*model.LoginSession{}}
	c := newTestClient(t, cloud, WithSessionCache(cache, time.Hour))

	require.NoError(t, c.Authenticate(context.Background(), true))
	assert.Equal(t, "Solar Home", c.Nickname())
	assert.Equal(t, "token-1", c.Session().AuthToken)
	assert.Equal(t, "token-1", cache.sessions["a@x.com"].AuthToken)

	require.NoError(t, c.Authenticate(context.Background(), false))
	assert.Equal(t, int32(1), cloud.loginCalls.Load())
}

func TestAuthenticateUsesCachedSession(t *testing.T) {
	cloud := newFakeCloud(t)
	cache := &memorySessionCache{sessions: map[string]*model.LoginSession{
		"a@x.com": {AuthToken: "token-1", Nickname: "Cached", TokenExpiresAt: time.Now().Add(time.Hour).Unix()},
	}}
	c := newTestClient(t, cloud, WithSessionCache(cache, time.Hour))

	require.NoError(t, c.Authenticate(context.Background(), false))
	assert.Equal(t, "Cached", c.Nickname())
	assert.Zero(t, cloud.loginCalls.Load())

	require.NoError(t, c.Authenticate(context.Background(), true))
	assert.Equal(t, int32(1), cloud.loginCalls.Load())
	assert.Equal(t, "Solar Home", c.Nickname())
}

func TestAuthenticateExpiredCachedSession(t *testing.T) {
	cloud := newFakeCloud(t)
	cache := &memorySessionCache{sessions: map[string]*model.LoginSession{
		"a@x.com": {AuthToken: "old", TokenExpiresAt: time.Now().Add(-time.Hour).Unix()},
	}}
	c := newTestClient(t, cloud, WithSessionCache(cache, time.Hour))

	require.NoError(t, c.Authenticate(context.Background(), false))
	assert.Equal(t, int32(1), cloud.loginCalls.Load())
	assert.Equal(t, "token-1", c.Session().AuthToken)
}

func TestAuthenticateErrors(t *testing.T) {
	tests := []struct {
		name  string
		code  int
		check func(error) bool
	}{
		{name: "invalid credentials", code: CodeInvalidCredentials, check: IsAuthenticationError},
		{name: "token kicked out", code: CodeTokenKickedOut, check: IsAuthenticationError},
		{name: "retry exceeded", code: CodeRetryExceeded, check: IsRetryExceededError},
		{name: "cloud connect error", code: CodeConnectError, check: IsCommunicationError},
		{name: "other", code: 10000, check: isRequestError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cloud := newFakeCloud(t)
			cloud.loginCode = tt.code
			c := newTestClient(t, cloud)

			err := c.Authenticate(context.Background(), true)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
			assert.Empty(t, c.Nickname())
		})
	}
}

func isRequestError(err error) bool {
	var target *RequestError
	return errors.As(err, &target)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	cloud := newFakeCloud(t)
	cloud.password = "other"
	c := newTestClient(t, cloud)

	err := c.Authenticate(context.Background(), true)
	assert.True(t, IsAuthenticationError(err))
	assert.Contains(t, err.Error(), "Authentication failed")
}

func TestAuthenticateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(
		model.Credentials{Username: "a@x.com", Password: "secret", CountryCode: "DE"},
		WithServer(url),
		WithServerPublicKey(newFakeCloud(t).publicKey()),
		WithRetryCount(0),
		WithRequestDelay(0),
		WithLogger(zerolog.Nop()),
	)

	err := c.Authenticate(context.Background(), true)
	assert.True(t, IsCommunicationError(err), "unexpected error kind: %v", err)
}

func TestUpdateSites(t *testing.T) {
	cloud := newFakeCloud(t)
	cloud.sites = []map[string]any{
		{"site_id": "site-1", "site_name": "Home"},
		{"site_id": "site-2", "site_name": "Cabin"},
	}
	cloud.scenes["site-1"] = map[string]any{
		"solarbank_info": map[string]any{"solarbank_list": []map[string]any{
			{"device_sn": "SB1", "device_name": "Solarbank", "device_pn": "A17C0"},
		}},
		"solar_list": []map[string]any{{"device_sn": "INV1", "device_pn": "A5140"}},
	}
	cloud.scenes["site-2"] = map[string]any{
		"pps_info":        map[string]any{"pps_list": []map[string]any{{"device_sn": "PPS1"}}},
		"powerpanel_list": []map[string]any{{"device_sn": "PP1"}},
	}
	c := newTestClient(t, cloud, WithSceneWorkers(2))

	require.NoError(t, c.UpdateSites(context.Background()))
	assert.Len(t, c.Sites(), 2)
	assert.Len(t, c.Devices(), 4)

	data := c.Data()
	require.Len(t, data, 6)
	assert.Equal(t, model.DeviceTypeSystem, data["site-1"].Type)
	assert.Equal(t, "Cabin", data["site-2"].Name)
	assert.Equal(t, model.DeviceRecord{SerialNumber: "SB1", Type: model.DeviceTypeSolarbank, Name: "Solarbank", Model: "A17C0", SiteID: "site-1"}, data["SB1"])
	assert.Equal(t, model.DeviceTypeInverter, data["INV1"].Type)
	assert.Equal(t, model.DeviceTypePPS, data["PPS1"].Type)
	assert.Equal(t, model.DeviceTypePowerPanel, data["PP1"].Type)
	assert.Equal(t, int32(1), cloud.loginCalls.Load())
}

func TestLoadSitesFromFolder(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	write(SiteListFile, `{"code":0,"data":{"site_list":[{"site_id":"s1","site_name":"Test"},{"site_id":"s2"}]}}`)
	write(SceneFile("s1"), `{"code":0,"data":{"solarbank_info":{"solarbank_list":[{"device_sn":"SB9"}]}}}`)

	c := NewClient(model.Credentials{Username: "a@x.com"}, WithLogger(zerolog.Nop()))
	require.NoError(t, c.LoadSitesFromFolder(dir))

	data := c.Data()
	assert.Len(t, data, 3)
	assert.Equal(t, model.DeviceTypeSolarbank, data["SB9"].Type)
	assert.Equal(t, model.DeviceTypeSystem, data["s2"].Type)

	assert.Error(t, c.LoadSitesFromFolder(filepath.Join(dir, "missing")))
}

func TestServerForCountry(t *testing.T) {
	assert.Equal(t, ServerEU, ServerForCountry("DE"))
	assert.Equal(t, ServerCOM, ServerForCountry("us"))
	assert.Equal(t, ServerEU, ServerForCountry(""))
}

func TestEncryptPassword(t *testing.T) {
	cloud := newFakeCloud(t)
	clientKey, encrypted, err := encryptPassword(cloud.publicKey(), "a much longer password!")
	require.NoError(t, err)
	assert.Equal(t, "a much longer password!", cloud.decrypt(clientKey, encrypted))

	_, _, err = encryptPassword("zz", "x")
	assert.Error(t, err)
}

func TestPKCS7Pad(t *testing.T) {
	assert.Equal(t, bytes.Repeat([]byte{16}, 16), pkcs7Pad(nil, 16))
	assert.Equal(t, append([]byte("abc"), bytes.Repeat([]byte{13}, 13)...), pkcs7Pad([]byte("abc"), 16))
}
