package usecase

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

const maxAppNameLen = 256

// ValidateAppName gates every name that can reach process termination.
// Allowlist, not denylist: letters, digits, spaces, and - _ . only, so
// shell metacharacters can never ride a crafted app name into an
// enforcement action.
func ValidateAppName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &domain.ValidationError{Name: name, Reason: "empty name"}
	}
	if len(name) > maxAppNameLen {
		return &domain.ValidationError{Name: name[:32] + "...", Reason: "name too long"}
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' || r == '.' {
			continue
		}
		return &domain.ValidationError{Name: name, Reason: fmt.Sprintf("disallowed character %q", r)}
	}
	return nil
}
