package sanitize

import "strings"

// Device types
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

// OS families
const (
	OSWindows = "windows"
	OSMacOS   = "macos"
	OSAndroid = "android"
	OSIOS     = "ios"
	OSLinux   = "linux"
	OSUnknown = "unknown"
)

// Browser families
const (
	BrowserChrome  = "chrome"
	BrowserSafari  = "safari"
	BrowserFirefox = "firefox"
	BrowserEdge    = "edge"
	BrowserUnknown = "unknown"
)

// UserAgentInfo is the coarse classification kept in place of a raw user agent
type UserAgentInfo struct {
	DeviceType    string
	OSFamily      string
	BrowserFamily string
}

// osMatchers are checked in order; the first match wins
var osMatchers = []struct {
	needles []string
	family  string
}{
	{[]string{"windows"}, OSWindows},
	{[]string{"mac os x"}, OSMacOS},
	{[]string{"android"}, OSAndroid},
	{[]string{"iphone", "ipad"}, OSIOS},
	{[]string{"linux"}, OSLinux},
}

// ParseUserAgent classifies a user agent string by substring matching
func ParseUserAgent(userAgent string) UserAgentInfo {
	ua := strings.ToLower(userAgent)

	return UserAgentInfo{
		DeviceType:    deviceType(ua),
		OSFamily:      osFamily(ua),
		BrowserFamily: browserFamily(ua),
	}
}

func deviceType(ua string) string {
	switch {
	case strings.Contains(ua, "tablet"):
		return DeviceTablet
	case strings.Contains(ua, "mobile"):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

func osFamily(ua string) string {
	for _, matcher := range osMatchers {
		for _, needle := range matcher.needles {
			if strings.Contains(ua, needle) {
				return matcher.family
			}
		}
	}
	return OSUnknown
}

// browserFamily applies edge > firefox > safari (without chrome) > chrome.
// Chromium-based user agents also carry "safari", hence the ordering.
func browserFamily(ua string) string {
	hasChrome := strings.Contains(ua, "chrome")

	switch {
	case strings.Contains(ua, "edg/") || strings.Contains(ua, "edge"):
		return BrowserEdge
	case strings.Contains(ua, "firefox"):
		return BrowserFirefox
	case strings.Contains(ua, "safari") && !hasChrome:
		return BrowserSafari
	case hasChrome:
		return BrowserChrome
	default:
		return BrowserUnknown
	}
}
