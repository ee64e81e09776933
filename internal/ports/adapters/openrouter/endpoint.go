package openrouter

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// DefaultBaseURL is the public OpenRouter origin.
const DefaultBaseURL = "https://openrouter.ai"

// PublicHosts are trusted when no allow-list is configured.
func PublicHosts() []string {
	return []string{"openrouter.ai", "api.openrouter.ai"}
}

// CanonicalHost reduces an allow-list entry (bare host, host:port or URL) to
// a lower-case host name. Entries without a host yield "".
func CanonicalHost(entry string) string {
	v := strings.ToLower(strings.TrimSpace(entry))
	if v == "" {
		return ""
	}
	if !strings.Contains(v, "://") {
		v = "//" + v
	}
	u, err := url.Parse(v)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func endpointURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// CheckEndpoint rejects base URLs that could leak the API key: anything but an
// absolute https URL on an allowed host, and any userinfo, query or fragment.
// An empty allow-list means PublicHosts.
func CheckEndpoint(baseURL string, allowedHosts []string) error {
	endpoint := endpointURL(baseURL)
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid llm base_url: %w", err)
	}

	var reason string
	switch {
	case !u.IsAbs() || u.Hostname() == "":
		reason = "absolute URL with host is required"
	case u.User != nil:
		reason = "userinfo is not allowed"
	case u.RawQuery != "" || u.Fragment != "":
		reason = "query and fragment are not allowed"
	case !strings.EqualFold(u.Scheme, "https"):
		reason = "https is required"
	}
	if reason != "" {
		return fmt.Errorf("invalid llm base_url %q: %s", endpoint, reason)
	}

	if len(allowedHosts) == 0 {
		allowedHosts = PublicHosts()
	}
	host := strings.ToLower(u.Hostname())
	if !slices.ContainsFunc(allowedHosts, func(h string) bool { return CanonicalHost(h) == host }) {
		return fmt.Errorf("invalid llm base_url %q: host %q is not in llm allowed_hosts", endpoint, host)
	}
	return nil
}
