package resilience

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/studiowebux/sihui/internal/client"
)

// Hint derives an actionable suggestion from a transport failure.
// It returns "" when nothing more useful than the error itself can be said.
func Hint(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, client.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return "Request timeout - the backend took too long, try again or raise --timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled"
	}

	var respErr *client.ResponseError
	if errors.As(err, &respErr) {
		return statusHint(respErr.Status)
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return "TLS certificate signed by unknown authority - set tls.ca_file or use a trusted certificate"
	}
	var invalidCert x509.CertificateInvalidError
	if errors.As(err, &invalidCert) {
		return "TLS certificate is invalid: " + invalidCert.Error()
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return "TLS hostname mismatch - certificate doesn't match the API host"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "DNS resolution failed - verify the API URL hostname and network access"
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED:
			return "Connection refused - check that the Sihui backend is running and the API URL port is correct"
		case syscall.ECONNRESET:
			return "Connection reset by server - the backend may have restarted"
		case syscall.ENETUNREACH:
			return "Network unreachable - check network connection and firewall settings"
		case syscall.EHOSTUNREACH:
			return "Host unreachable - check if the backend is online and accessible"
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "Connection timeout - the backend did not respond in time"
	}

	return hintFromText(err.Error())
}

// hintFromText is the fallback when the error chain carries no typed cause
func hintFromText(errStr string) string {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "no such host"), strings.Contains(errLower, "dial tcp: lookup"):
		return "DNS resolution failed - verify the API URL hostname and network access"
	case strings.Contains(errLower, "connection refused"):
		return "Connection refused - check that the Sihui backend is running and the API URL port is correct"
	case strings.Contains(errLower, "connection reset"):
		return "Connection reset by server - the backend may have restarted"
	case strings.Contains(errLower, "x509"), strings.Contains(errLower, "certificate"), strings.Contains(errLower, "tls"):
		return "TLS error - check the certificate configuration"
	case strings.Contains(errLower, "unsupported protocol"), strings.Contains(errLower, "invalid url"):
		return "Invalid API URL - it must start with http:// or https://"
	case strings.Contains(errLower, "eof"):
		return "Connection closed unexpectedly - the backend terminated the connection"
	case strings.Contains(errLower, "timeout"), strings.Contains(errLower, "timed out"):
		return "Connection timeout - the backend did not respond in time"
	}
	return ""
}

// statusHint suggests a next step for common failure statuses
func statusHint(status int) string {
	switch {
	case status == 401:
		return "Session expired or missing - run `sihui login`"
	case status == 403:
		return "Your account lacks the permission for this action"
	case status == 404:
		return "Resource not found - check the id or endpoint"
	case status == 429:
		return "Rate limited by the backend - lower rate_limit or retry later"
	case status >= 500:
		return "Backend error - retry later or check the server logs"
	}
	return ""
}
