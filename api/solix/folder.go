package solix

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/pkg/util"
	"go.openly.dev/pointy"
)

const SiteListFile = "site_list.json"

func SceneFile(siteID string) string {
	return fmt.Sprintf("scene_%s.json", siteID)
}

// LoadSitesFromFolder replaces the site and device data with the responses
// stored in an example folder, without any cloud request.
func (c *Client) LoadSitesFromFolder(dir string) error {
	var siteList GetSiteListResponse
	if err := readJSON(filepath.Join(dir, SiteListFile), &siteList); err != nil {
		return err
	}

	sites := make(model.ApiData)
	devices := make(model.ApiData)
	for _, site := range siteList.Data.SiteList {
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

		var scene GetSceneInfoResponse
		if err := readJSON(filepath.Join(dir, SceneFile(siteID)), &scene); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				c.logger.Warn().Str("dir", dir).Str("site_id", siteID).Msg("Client::LoadSitesFromFolder() - no scene file")
				continue
			}
			return err
		}
		collectDevices(devices, siteID, &scene.Data)
	}

	c.sites = sites
	c.devices = devices
	c.logger.Info().Str("dir", dir).Int("site_count", len(sites)).Int("device_count", len(devices)).Msg("Client::LoadSitesFromFolder() - sites loaded")
	return nil
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
