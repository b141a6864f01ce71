package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

func TestValidateAppNameAccepts(t *testing.T) {
	for _, name := range []string{
		"Firefox",
		"Visual Studio Code",
		"app_v1.2",
		"intellij-idea",
		"OBS Studio 30.1",
	} {
		assert.NoError(t, ValidateAppName(name), name)
	}
}

func TestValidateAppNameRejects(t *testing.T) {
	for _, name := range []string{
		"",
		"   ",
		"rm;reboot",
		"a|b",
		"app`id`",
		"x$(whoami)",
		"a&b",
		"path/to/app",
		"new\nline",
		strings.Repeat("a", 257),
	} {
		err := ValidateAppName(name)
		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve, "%q", name)
	}
}

func TestValidateAppNameBoundaryLength(t *testing.T) {
	assert.NoError(t, ValidateAppName(strings.Repeat("a", 256)))
	assert.Error(t, ValidateAppName(strings.Repeat("a", 257)))
}
