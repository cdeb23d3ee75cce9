package nameserver

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Common GeoLite2 country database locations tried when no explicit path is
// configured.
var defaultGeoIPPaths = []string{
	"/usr/share/GeoIP/GeoLite2-Country.mmdb",
	"/usr/local/share/GeoIP/GeoLite2-Country.mmdb",
}

// CountryCode returns the ISO country code for the server's IP using the
// GeoLite2 database at dbPath, or the common system locations when dbPath is
// empty. ok is false when no database can be opened or the IP is unknown.
func (ns *Nameserver) CountryCode(dbPath string) (string, bool) {
	ip := net.ParseIP(ns.IP)
	if ip == nil {
		return "", false
	}
	paths := defaultGeoIPPaths
	if dbPath != "" {
		paths = []string{dbPath}
	}
	for _, p := range paths {
		db, err := geoip2.Open(p)
		if err != nil {
			continue
		}
		rec, lookupErr := db.Country(ip)
		db.Close()
		if lookupErr == nil && rec != nil && rec.Country.IsoCode != "" {
			return rec.Country.IsoCode, true
		}
	}
	return "", false
}

// AnnotateCountry appends the ISO country code to the display name, e.g.
// "ns1.example" becomes "ns1.example (DE)". Reports whether a lookup
// succeeded; the name is left untouched otherwise.
func (ns *Nameserver) AnnotateCountry(dbPath string) bool {
	cc, ok := ns.CountryCode(dbPath)
	if !ok {
		return false
	}
	base := ns.Name
	if base == "" {
		base = ns.IP
	}
	ns.Name = fmt.Sprintf("%s (%s)", base, cc)
	return true
}
