package solix

import (
	"context"
	"crypto/md5"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/pkg/logger"
	"github.com/HavvokLab/solix-setup/pkg/util"
	"github.com/gammazero/workerpool"
	"github.com/imroc/req/v3"
	"github.com/rs/zerolog"
	"go.openly.dev/pointy"
)

const (
	ServerEU  = "https://ankerpower-api-eu.anker.com"
	ServerCOM = "https://ankerpower-api.anker.com"
)

const (
	EndpointLogin     = "passport/login"
	EndpointSiteList  = "power_service/v1/site/get_site_list"
	EndpointSceneInfo = "power_service/v1/site/get_scen_info"
)

const (
	DefaultRequestDelay = 300 * time.Millisecond
	DefaultSessionTTL   = 24 * time.Hour
)

// Countries served by the COM server, all others use the EU server.
var comCountries = map[string]struct{}{
	"AR": {}, "AU": {}, "BR": {}, "CA": {}, "DZ": {}, "EG": {}, "HK": {}, "IL": {},
	"IN": {}, "JO": {}, "JP": {}, "KR": {}, "LB": {}, "LY": {}, "MA": {}, "MX": {},
	"NG": {}, "NZ": {}, "PS": {}, "RU": {}, "SG": {}, "SY": {}, "TN": {}, "TW": {},
	"US": {}, "ZA": {},
}

func ServerForCountry(countryCode string) string {
	if _, ok := comCountries[strings.ToUpper(countryCode)]; ok {
		return ServerCOM
	}
	return ServerEU
}

type SessionCache interface {
	GetSession(ctx context.Context, username string) (*model.LoginSession, error)
	SetSession(ctx context.Context, username string, session *model.LoginSession, ttl time.Duration) error
}

type Client struct {
	reqClient    *req.Client
	credentials  model.Credentials
	url          string
	serverKey    string
	requestDelay time.Duration
	sceneWorkers int
	cache        SessionCache
	sessionTTL   time.Duration
	session      *model.LoginSession
	sites        model.ApiData
	devices      model.ApiData
	mu           sync.Mutex
	lastRequest  time.Time
	logger       zerolog.Logger
}

type Option func(*Client)

func WithRetryCount(count int) Option {
	return func(c *Client) {
		c.reqClient.SetCommonRetryCount(count)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.reqClient.SetTimeout(timeout)
	}
}

// WithServer overrides the country based server selection.
func WithServer(url string) Option {
	return func(c *Client) {
		if !util.IsEmpty(url) {
			c.url = strings.TrimRight(url, "/")
		}
	}
}

func WithServerPublicKey(key string) Option {
	return func(c *Client) {
		c.serverKey = key
	}
}

func WithRequestDelay(delay time.Duration) Option {
	return func(c *Client) {
		c.requestDelay = delay
	}
}

func WithSceneWorkers(workers int) Option {
	return func(c *Client) {
		if workers > 0 {
			c.sceneWorkers = workers
		}
	}
}

func WithSessionCache(cache SessionCache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		if ttl > 0 {
			c.sessionTTL = ttl
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func NewClient(credentials model.Credentials, opts ...Option) *Client {
	c := &Client{
		reqClient: req.C().
			SetCommonRetryCount(3).
			SetCommonRetryFixedInterval(2 * time.Second).
			SetTimeout(10 * time.Second).
			SetCommonHeaders(map[string]string{
				"Content-Type": "application/json",
				"Model-Type":   "DESKTOP",
				"App-Name":     "anker_power",
				"Os-Type":      "android",
				"Country":      strings.ToUpper(credentials.CountryCode),
			}),
		credentials:  credentials,
		url:          ServerForCountry(credentials.CountryCode),
		serverKey:    ServerPublicKey,
		requestDelay: DefaultRequestDelay,
		sceneWorkers: 1,
		sessionTTL:   DefaultSessionTTL,
		sites:        make(model.ApiData),
		devices:      make(model.ApiData),
		logger:       logger.New("solix_api.log"),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.reqClient.OnBeforeRequest(func(client *req.Client, r *req.Request) error {
		c.logger.Debug().
			Str("url", r.RawURL).
			Msg("Client::request() - requesting")
		return nil
	})

	return c
}

// Authenticate logs in to the cloud. Without restart a valid session from
// memory or the session cache is reused.
func (c *Client) Authenticate(ctx context.Context, restart bool) error {
	username := c.credentials.Username
	if !restart {
		if sessionValid(c.session) {
			return nil
		}

		if c.cache != nil {
			session, err := c.cache.GetSession(ctx, username)
			if err != nil {
				c.logger.Warn().Err(err).Str("username", username).Msg("Client::Authenticate() - failed to read cached session")
			} else if sessionValid(session) {
				c.session = session
				c.logger.Debug().Str("username", username).Msg("Client::Authenticate() - using cached session")
				return nil
			}
		}
	}

	publicKey, password, err := encryptPassword(c.serverKey, c.credentials.Password)
	if err != nil {
		c.logger.Error().Err(err).Msg("Client::Authenticate() - failed to encrypt password")
		return &RequestError{Message: err.Error()}
	}

	_, offset := time.Now().Zone()
	body := map[string]any{
		"ab":                 strings.ToUpper(c.credentials.CountryCode),
		"client_secret_info": map[string]any{"public_key": publicKey},
		"enc":                0,
		"email":              username,
		"password":           password,
		"time_zone":          offset * 1000,
		"transaction":        strconv.FormatInt(time.Now().UnixMilli(), 10),
	}

	result, err := post[LoginData](ctx, c, EndpointLogin, body)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", username).Msg("Client::Authenticate() - login failed")
		return err
	}

	token := pointy.StringValue(result.Data.AuthToken, "")
	if util.IsEmpty(token) {
		c.logger.Error().Str("username", username).Msg("Client::Authenticate() - empty auth token")
		return &AuthenticationError{Code: result.Code, Message: "empty auth token"}
	}

	c.session = &model.LoginSession{
		UserID:         pointy.StringValue(result.Data.UserID, ""),
		Email:          pointy.StringValue(result.Data.Email, username),
		Nickname:       pointy.StringValue(result.Data.NickName, ""),
		AuthToken:      token,
		TokenExpiresAt: pointy.Int64Value(result.Data.TokenExpiresAt, 0),
		Server:         c.url,
	}

	if c.cache != nil {
		if err := c.cache.SetSession(ctx, username, c.session, c.sessionTTL); err != nil {
			c.logger.Warn().Err(err).Str("username", username).Msg("Client::Authenticate() - failed to cache session")
		}
	}

	c.logger.Info().Str("username", username).Str("nickname", c.session.Nickname).Msg("Client::Authenticate() - login successfully")
	return nil
}

// UpdateSites refreshes the sites of the account and the devices of each site.
func (c *Client) UpdateSites(ctx context.Context) error {
	if err := c.Authenticate(ctx, false); err != nil {
		return err
	}

	result, err := post[SiteList](ctx, c, EndpointSiteList, map[string]any{})
	if err != nil {
		c.logger.Error().Err(err).Msg("Client::UpdateSites() - failed to get site list")
		return err
	}

	sites := make(model.ApiData)
	devices := make(model.ApiData)
	var mu sync.Mutex
	var firstErr error

	wp := workerpool.New(c.sceneWorkers)
	for _, site := range result.Data.SiteList {
		siteID := pointy.StringValue(site.SiteID, "")
		if util.IsEmpty(siteID) {
			continue
		}

		sites[siteID] = model.DeviceRecord{
			SerialNumber: siteID,
			Type:         model.DeviceTypeSystem,
			Name:         pointy.StringValue(site.SiteName, ""),
			SiteID:       siteID,
		}

		wp.Submit(func() {
			scene, err := post[SceneInfo](ctx, c, EndpointSceneInfo, map[string]any{"site_id": siteID})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Error().Err(err).Str("site_id", siteID).Msg("Client::UpdateSites() - failed to get scene info")
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			collectDevices(devices, siteID, &scene.Data)
		})
	}
	wp.StopWait()

	if firstErr != nil {
		return firstErr
	}

	c.sites = sites
	c.devices = devices
	c.logger.Info().Int("site_count", len(sites)).Int("device_count", len(devices)).Msg("Client::UpdateSites() - sites updated")
	return nil
}

func collectDevices(devices model.ApiData, siteID string, scene *SceneInfo) {
	add := func(list []Device, deviceType string) {
		for _, d := range list {
			sn := pointy.StringValue(d.DeviceSN, "")
			if util.IsEmpty(sn) {
				continue
			}
			devices[sn] = model.DeviceRecord{
				SerialNumber: sn,
				Type:         deviceType,
				Name:         pointy.StringValue(d.DeviceName, ""),
				Model:        pointy.StringValue(d.DevicePN, ""),
				SiteID:       siteID,
			}
		}
	}

	if scene.SolarbankInfo != nil {
		add(scene.SolarbankInfo.SolarbankList, model.DeviceTypeSolarbank)
	}
	if scene.PPSInfo != nil {
		add(scene.PPSInfo.PPSList, model.DeviceTypePPS)
	}
	add(scene.SolarList, model.DeviceTypeInverter)
	add(scene.PowerPanelList, model.DeviceTypePowerPanel)
	add(scene.SmartMeterList, model.DeviceTypeSmartMeter)
}

func (c *Client) Sites() model.ApiData {
	return c.sites
}

func (c *Client) Devices() model.ApiData {
	return c.devices
}

// Data merges sites and devices into one lookup, devices winning on overlap.
func (c *Client) Data() model.ApiData {
	data := make(model.ApiData, len(c.sites)+len(c.devices))
	if err := mergo.Merge(&data, c.sites); err != nil {
		c.logger.Error().Err(err).Msg("Client::Data() - failed to merge sites")
	}
	if err := mergo.Merge(&data, c.devices, mergo.WithOverride); err != nil {
		c.logger.Error().Err(err).Msg("Client::Data() - failed to merge devices")
	}
	return data
}

// Nickname is the account display name, empty before login.
func (c *Client) Nickname() string {
	if c.session == nil {
		return ""
	}
	return c.session.Nickname
}

func (c *Client) Session() *model.LoginSession {
	return c.session
}

func sessionValid(s *model.LoginSession) bool {
	if s == nil || util.IsEmpty(s.AuthToken) {
		return false
	}
	return s.TokenExpiresAt == 0 || time.Unix(s.TokenExpiresAt, 0).After(time.Now())
}

// RequestDelay is the minimum gap between two cloud requests.
func (c *Client) RequestDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestDelay
}

func (c *Client) SetRequestDelay(delay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestDelay = delay
}

func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.requestDelay > 0 && !c.lastRequest.IsZero() {
		if wait := c.requestDelay - time.Since(c.lastRequest); wait > 0 {
			time.Sleep(wait)
		}
	}
	c.lastRequest = time.Now()
}

func (c *Client) authHeaders() map[string]string {
	headers := make(map[string]string)
	if c.session != nil {
		headers["x-auth-token"] = c.session.AuthToken
		headers["gtoken"] = fmt.Sprintf("%x", md5.Sum([]byte(c.session.UserID)))
	}
	return headers
}

func post[T any](ctx context.Context, c *Client, endpoint string, body any) (*Response[T], error) {
	c.throttle()

	url := c.url + "/" + endpoint
	var result Response[T]
	var errorResult model.ApiErrorResponse
	resp, err := c.reqClient.R().
		SetContext(ctx).
		SetHeaders(c.authHeaders()).
		SetBody(body).
		SetSuccessResult(&result).
		SetErrorResult(&errorResult).
		Post(url)

	if err != nil {
		c.logger.Error().
			Err(err).
			Str("url", url).
			Msg("Client::post() - request failed")
		return nil, &CommunicationError{Message: endpoint, Err: err}
	}

	if resp.IsErrorState() {
		code := errorResult.Code()
		if code == 0 {
			code = resp.StatusCode
		}
		c.logger.Error().
			Str("url", url).
			Int("status_code", resp.StatusCode).
			Any("error_response", errorResult).
			Msg("Client::post() - error response")
		return nil, errorFromCode(code, errorResult.String())
	}

	if result.Code != CodeSuccess {
		c.logger.Error().
			Str("url", url).
			Int("status_code", resp.StatusCode).
			Int("code", result.Code).
			Str("message", result.Message).
			Msg("Client::post() - request rejected")
		return nil, errorFromCode(result.Code, result.Message)
	}

	return &result, nil
}
