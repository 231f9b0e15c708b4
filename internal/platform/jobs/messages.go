package jobs

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

func buildResetLink(baseURL, token string) string {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		base, _ = url.Parse(defaultBaseURL)
	}
	base.Path = strings.TrimSuffix(base.Path, "/") + "/reset-password"
	base.RawQuery = url.Values{"token": {token}}.Encode()
	return base.String()
}

func buildResetEmailMessage(name, link string, ttl time.Duration) string {
	hours := int(ttl.Hours())
	if hours < 1 {
		hours = 1
	}
	return fmt.Sprintf("Hello %s,\n\nA password reset was requested for your account.\nOpen the link below to choose a new password:\n\n%s\n\nThis link expires in %d hour(s). If you did not ask for a reset you can ignore this message.\n", greetingName(name), link, hours)
}

func buildDecisionMessage(payload RegistrationDecidedPayload, baseURL string) (string, string) {
	if payload.Approved {
		return "Your account has been approved",
			fmt.Sprintf("Hello %s,\n\nYour registration has been approved. You can now sign in at %s.\n", greetingName(payload.Name), strings.TrimSpace(baseURL))
	}
	body := fmt.Sprintf("Hello %s,\n\nYour registration was not approved.\n", greetingName(payload.Name))
	if reason := strings.TrimSpace(payload.Reason); reason != "" {
		body += "Reason: " + reason + "\n"
	}
	return "Your registration was not approved", body
}

func greetingName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return strings.TrimSpace(name)
}
