package validation

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// User-facing validation messages. Handlers return these verbatim.
const (
	MsgPageRequired  = "Page name is required."
	MsgPageTooLong   = "Page name cannot exceed 100 characters."
	MsgPageInvalid   = "Invalid page name. Use only letters, numbers, dashes, underscores, and certain symbols."
	MsgLinkInvalid   = "Invalid URL format."
	MsgLinkHTTPOnly  = "Only HTTP and HTTPS links are allowed."
	MsgDomainInvalid = "Invalid domain format."
	MsgIPInvalid     = "Invalid IP address."
	MsgDescRequired  = "Description is required."
	MsgDescTooLong   = "Description cannot exceed 100 characters."
)

const maxPageNameLength = 100
const maxDescriptionLength = 100

var (
	pageNamePattern = regexp.MustCompile(`^[\p{L}\p{N}+\-._!~*'()]+$`)
	domainPattern   = regexp.MustCompile(`^[\p{L}0-9-]+(\.[\p{L}0-9-]+)+$`)
	ipv4Pattern     = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
	schemePattern   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
)

// ValidatePageName checks length and charset of a page name. The charset
// allows Unicode letters and numbers plus + - . _ ! ~ * ' ( ).
func ValidatePageName(page string) (bool, string) {
	if page == "" {
		return false, MsgPageRequired
	}
	if len([]rune(page)) > maxPageNameLength {
		return false, MsgPageTooLong
	}
	if !pageNamePattern.MatchString(page) {
		return false, MsgPageInvalid
	}
	return true, ""
}

// ValidateLink checks that link is a parseable http(s) URL whose host is
// localhost, a dotted hostname, an IPv4 literal with in-range octets, or an
// IPv6 literal. Callers should run NormalizeLink first for scheme-less input.
func ValidateLink(link string) (bool, string) {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return false, MsgLinkInvalid
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false, MsgLinkHTTPOnly
	}

	host := u.Hostname()
	if host == "" {
		return false, MsgDomainInvalid
	}
	if host == "localhost" {
		return true, ""
	}
	if ipv4Pattern.MatchString(host) {
		for _, octet := range strings.Split(host, ".") {
			n, err := strconv.Atoi(octet)
			if err != nil || n > 255 {
				return false, MsgIPInvalid
			}
		}
		return true, ""
	}
	// Bracketed IPv6 literals arrive here with brackets already stripped
	if ip := net.ParseIP(host); ip != nil && strings.Contains(host, ":") {
		return true, ""
	}
	if !domainPattern.MatchString(host) {
		return false, MsgDomainInvalid
	}
	return true, ""
}

// ValidateDescription checks that a description is present and short enough.
func ValidateDescription(description string) (bool, string) {
	if description == "" {
		return false, MsgDescRequired
	}
	if len([]rune(description)) > maxDescriptionLength {
		return false, MsgDescTooLong
	}
	return true, ""
}

// NormalizeLink prepends https:// when the input carries no scheme at all.
// Links with an explicit non-http scheme pass through untouched so
// ValidateLink can reject them by name.
func NormalizeLink(link string) string {
	if !schemePattern.MatchString(link) {
		return "https://" + link
	}
	return link
}
