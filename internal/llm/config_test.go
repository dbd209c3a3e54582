package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, DefaultTemperature, config.Temperature)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestGetModel_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		models map[ModelTier]string
		tier   ModelTier
		want   string
	}{
		{"unknown tier uses lite", map[ModelTier]string{TierLite: "lite-model"}, "unknown", "lite-model"},
		{"standard preferred over lite", map[ModelTier]string{TierLite: "l", TierStandard: "s"}, TierAdvanced, "s"},
		{"blank entry skipped", map[ModelTier]string{TierAdvanced: "", TierLite: "l"}, TierAdvanced, "l"},
		{"empty config", map[ModelTier]string{}, TierAdvanced, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Provider: ProviderGemini, Models: tt.models}
			assert.Equal(t, tt.want, config.GetModel(tt.tier))
		})
	}
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, config.Temperature, newConfig.Temperature)
}
