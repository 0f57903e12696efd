package solix

type Response[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"msg,omitempty"`
	Data    T      `json:"data,omitempty"`
}

type LoginData struct {
	UserID         *string `json:"user_id,omitempty"`
	Email          *string `json:"email,omitempty"`
	NickName       *string `json:"nick_name,omitempty"`
	AuthToken      *string `json:"auth_token,omitempty"`
	TokenExpiresAt *int64  `json:"token_expires_at,omitempty"`
}

type LoginResponse = Response[LoginData]

type Site struct {
	SiteID   *string `json:"site_id,omitempty"`
	SiteName *string `json:"site_name,omitempty"`
	SiteType *int    `json:"site_type,omitempty"`
	MsType   *int    `json:"ms_type,omitempty"`
}

type SiteList struct {
	SiteList []Site `json:"site_list,omitempty"`
}

type GetSiteListResponse = Response[SiteList]

type Device struct {
	DeviceSN   *string `json:"device_sn,omitempty"`
	DeviceName *string `json:"device_name,omitempty"`
	DevicePN   *string `json:"device_pn,omitempty"`
}

type SolarbankInfo struct {
	SolarbankList []Device `json:"solarbank_list,omitempty"`
}

type PPSInfo struct {
	PPSList []Device `json:"pps_list,omitempty"`
}

type HomeInfo struct {
	HomeName *string `json:"home_name,omitempty"`
}

type SceneInfo struct {
	HomeInfo       *HomeInfo      `json:"home_info,omitempty"`
	SolarbankInfo  *SolarbankInfo `json:"solarbank_info,omitempty"`
	PPSInfo        *PPSInfo       `json:"pps_info,omitempty"`
	SolarList      []Device       `json:"solar_list,omitempty"`
	PowerPanelList []Device       `json:"powerpanel_list,omitempty"`
	SmartMeterList []Device       `json:"grid_list,omitempty"`
}

type GetSceneInfoResponse = Response[SceneInfo]
