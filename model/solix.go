package model

const (
	DeviceTypeSystem      = "system"
	DeviceTypeSolarbank   = "solarbank"
	DeviceTypeInverter    = "inverter"
	DeviceTypePPS         = "pps"
	DeviceTypePowerPanel  = "powerpanel"
	DeviceTypeSmartMeter  = "smartmeter"
	DeviceTypePowerCooler = "powercooler"
)

const (
	CategorySitePrice          = "site_price"
	CategorySolarbankEnergy    = "solarbank_energy"
	CategorySolarbankCutoff    = "solarbank_cutoff"
	CategorySolarbankFittings  = "solarbank_fittings"
	CategorySolarbankSolarInfo = "solarbank_solar_info"
	CategoryDeviceAutoUpgrade  = "device_auto_upgrade"
)

// ApiCategories are the device types and data categories that can be
// excluded from tracking, in display order.
var ApiCategories = []string{
	DeviceTypePPS,
	DeviceTypePowerPanel,
	DeviceTypeInverter,
	DeviceTypeSolarbank,
	CategorySolarbankEnergy,
	CategorySolarbankCutoff,
	CategorySolarbankFittings,
	CategorySolarbankSolarInfo,
	CategoryDeviceAutoUpgrade,
	CategorySitePrice,
}

var DefaultExcludeCategories = []string{CategorySolarbankEnergy}

// DeviceRecord is a site or device reported by the cloud for an account.
type DeviceRecord struct {
	SerialNumber string `json:"device_sn"`
	Type         string `json:"type"`
	Name         string `json:"name,omitempty"`
	Model        string `json:"device_pn,omitempty"`
	SiteID       string `json:"site_id,omitempty"`
}

// ApiData maps serial numbers and site ids to their records.
type ApiData map[string]DeviceRecord

func (d ApiData) Has(serial string) bool {
	_, ok := d[serial]
	return ok
}

type LoginSession struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	Nickname       string `json:"nick_name"`
	AuthToken      string `json:"auth_token"`
	TokenExpiresAt int64  `json:"token_expires_at"`
	Server         string `json:"server"`
}
