// Package detect implements the local regex pre-filter for sensitive data.
//
// The detector scans raw log text for a fixed set of sensitive-data
// categories and replaces every occurrence with a deterministic mock value.
// Running it before any AI provider sees the text reduces the amount of raw
// sensitive data leaving the machine.
//
// Detection is deterministic: the same input with the same options always
// produces the same prefiltered text and the same mapping list, in the same
// order.
package detect

import "github.com/logscrub/logscrub/internal/config"

// Category identifies a class of sensitive data.
//
// This list is authoritative for the whole system: the AI provider prompts
// and the pipeline's merge logic use exactly these categories.
type Category string

const (
	CategoryEmail          Category = "Email"
	CategoryIPAddress      Category = "IpAddress"
	CategoryHostname       Category = "Hostname"
	CategoryAPIKey         Category = "ApiKey"
	CategoryGUID           Category = "Guid"
	CategorySSHKey         Category = "SshKey"
	CategorySSHFingerprint Category = "SshFingerprint"
)

// Categories returns all categories in scan order. The order is load-bearing:
// it breaks ties when two categories match the same span at the same length.
func Categories() []Category {
	return []Category{
		CategoryEmail,
		CategoryIPAddress,
		CategoryHostname,
		CategoryAPIKey,
		CategoryGUID,
		CategorySSHKey,
		CategorySSHFingerprint,
	}
}

// MappingType returns the type string recorded in mapping entries produced
// by the local detector, e.g. "Local.Email".
func (c Category) MappingType() string {
	return "Local." + string(c)
}

// Mapping records one original→replacement substitution.
type Mapping struct {
	Type        string `json:"type"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

// Options toggles detection per category. The SSHKeys toggle covers both
// SSH public keys and SSH fingerprints.
type Options struct {
	Emails    bool
	IPs       bool
	Hostnames bool
	APIKeys   bool
	GUIDs     bool
	SSHKeys   bool
}

// AllOptions returns Options with every category enabled.
func AllOptions() Options {
	return Options{
		Emails:    true,
		IPs:       true,
		Hostnames: true,
		APIKeys:   true,
		GUIDs:     true,
		SSHKeys:   true,
	}
}

// OptionsFromConfig converts the configuration snapshot into detector options.
func OptionsFromConfig(cfg config.DetectionConfig) Options {
	return Options{
		Emails:    cfg.Emails,
		IPs:       cfg.IPs,
		Hostnames: cfg.Hostnames,
		APIKeys:   cfg.APIKeys,
		GUIDs:     cfg.GUIDs,
		SSHKeys:   cfg.SSHKeys,
	}
}

func (o Options) enabled(c Category) bool {
	switch c {
	case CategoryEmail:
		return o.Emails
	case CategoryIPAddress:
		return o.IPs
	case CategoryHostname:
		return o.Hostnames
	case CategoryAPIKey:
		return o.APIKeys
	case CategoryGUID:
		return o.GUIDs
	case CategorySSHKey, CategorySSHFingerprint:
		return o.SSHKeys
	default:
		return false
	}
}

// Result is the output of one DetectAndReplace call.
type Result struct {
	OriginalText    string
	PrefilteredText string
	Mappings        []Mapping
}
